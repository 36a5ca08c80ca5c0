package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"telecare/models"
	"telecare/utils"
)

// CreateBooking books a seat directly, without a payment flow.
func (hb *HandlerBundle) CreateBooking(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	booking, err := hb.Bookings.Create(c.Request.Context(), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns one booking by id.
func (hb *HandlerBundle) GetBooking(c *gin.Context) {
	booking, err := hb.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings returns all bookings.
func (hb *HandlerBundle) ListBookings(c *gin.Context) {
	bookings, err := hb.Bookings.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListProviderBookings returns one provider's bookings.
func (hb *HandlerBundle) ListProviderBookings(c *gin.Context) {
	bookings, err := hb.Bookings.ListByProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AssignBooking reassigns a booking's provider. An empty or missing
// providerId returns the booking to the admin queue.
func (hb *HandlerBundle) AssignBooking(c *gin.Context) {
	var req struct {
		ProviderID string `json:"providerId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	booking, err := hb.Bookings.Assign(c.Request.Context(), c.Param("id"), req.ProviderID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking between Pending, Completed and
// Canceled.
func (hb *HandlerBundle) UpdateBookingStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	booking, err := hb.Bookings.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
