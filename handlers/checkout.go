package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"telecare/models"
	paymentSvc "telecare/services/payment"
	"telecare/utils"
)

// CreateBookingCheckout opens a payment session for a booking. The booking
// itself is only created when the completion webhook arrives.
func (hb *HandlerBundle) CreateBookingCheckout(c *gin.Context) {
	var req struct {
		models.BookingInput
		Amount      int64  `json:"amount" binding:"required,min=1"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.Description == "" {
		req.Description = req.Service
	}
	sess, err := hb.Payments.CreateBookingCheckout(paymentSvc.CheckoutRequest{
		Input:       req.BookingInput,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create checkout session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "url": sess.URL})
}

// CreateFormCheckout opens a payment session for an existing intake form.
func (hb *HandlerBundle) CreateFormCheckout(c *gin.Context) {
	var req struct {
		FormID      string `json:"formId" binding:"required"`
		Amount      int64  `json:"amount" binding:"required,min=1"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	form, err := hb.Forms.GetByID(c.Request.Context(), req.FormID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if req.Description == "" {
		req.Description = "Intake form"
	}
	sess, err := hb.Payments.CreateFormCheckout(form, req.Amount, req.Currency, req.Description)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create checkout session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "url": sess.URL})
}
