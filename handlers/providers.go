package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"telecare/models"
	"telecare/utils"
)

// RegisterProvider adds a provider to the directory.
func (hb *HandlerBundle) RegisterProvider(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	created, err := hb.Providers.Register(c.Request.Context(), &p)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProvider returns one provider by id.
func (hb *HandlerBundle) GetProvider(c *gin.Context) {
	p, err := hb.Providers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListProviders returns the full directory, or only active providers when
// ?active=true.
func (hb *HandlerBundle) ListProviders(c *gin.Context) {
	var (
		providers []models.Provider
		err       error
	)
	if c.Query("active") == "true" {
		providers, err = hb.Providers.ListActive(c.Request.Context())
	} else {
		providers, err = hb.Providers.ListAll(c.Request.Context())
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// SetWeeklyAvailability replaces a provider's recurring weekly windows.
func (hb *HandlerBundle) SetWeeklyAvailability(c *gin.Context) {
	var req struct {
		Availability []models.WeeklyAvailability `json:"availability" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	p, err := hb.Providers.SetWeeklyAvailability(c.Request.Context(), c.Param("id"), req.Availability)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpsertMonthlyAvailability replaces or adds one month's date-level entries.
func (hb *HandlerBundle) UpsertMonthlyAvailability(c *gin.Context) {
	var month models.MonthlyAvailability
	if err := c.ShouldBindJSON(&month); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	p, err := hb.Providers.UpsertMonthlyAvailability(c.Request.Context(), c.Param("id"), month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetProviderStatus flips a provider between Active and Inactive, appending
// to the status history.
func (hb *HandlerBundle) SetProviderStatus(c *gin.Context) {
	var req struct {
		Status string     `json:"status" binding:"required"`
		Reason string     `json:"reason"`
		ToDate *time.Time `json:"toDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	p, err := hb.Providers.SetStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason, req.ToDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpsertDateOverride sets a provider's availability window for one date,
// superseding weekly and monthly rules.
func (hb *HandlerBundle) UpsertDateOverride(c *gin.Context) {
	var o models.DateOverride
	if err := c.ShouldBindJSON(&o); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	o.ProviderID = c.Param("id")
	saved, err := hb.Providers.UpsertDateOverride(c.Request.Context(), &o)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListDateOverrides returns a provider's overrides, optionally bounded by
// ?startDate and ?endDate.
func (hb *HandlerBundle) ListDateOverrides(c *gin.Context) {
	overrides, err := hb.Providers.ListDateOverrides(c.Request.Context(),
		c.Param("id"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overrides)
}

// DeleteDateOverride removes a provider's override for one date.
func (hb *HandlerBundle) DeleteDateOverride(c *gin.Context) {
	if err := hb.Providers.DeleteDateOverride(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
