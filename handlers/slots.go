package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"telecare/models"
	"telecare/utils"
)

// GenerateTemplateSlots creates slots across a date range from a weekly
// schedule.
func (hb *HandlerBundle) GenerateTemplateSlots(c *gin.Context) {
	var req models.GenerateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	created, err := hb.Slots.GenerateTemplateSlots(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(created), "slots": created})
}

// GenerateSpecialSlots creates one-off slots for a single date.
func (hb *HandlerBundle) GenerateSpecialSlots(c *gin.Context) {
	var req models.GenerateSpecialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	created, err := hb.Slots.GenerateSpecialSlots(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(created), "slots": created})
}

// ListBookableSlots returns visible slots with remaining capacity, today
// onward.
func (hb *HandlerBundle) ListBookableSlots(c *gin.Context) {
	slots, err := hb.Slots.ListBookable(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ListAllSlots returns every slot, including hidden and full ones.
func (hb *HandlerBundle) ListAllSlots(c *gin.Context) {
	slots, err := hb.Slots.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// SetSlotCapacity resizes a slot, preserving already-consumed seats.
func (hb *HandlerBundle) SetSlotCapacity(c *gin.Context) {
	var req struct {
		NewCapacity int    `json:"newCapacity" binding:"required,min=1"`
		Reason      string `json:"reason" binding:"required"`
		UpdatedBy   string `json:"updatedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	updated, err := hb.Slots.SetCapacity(c.Request.Context(), c.Param("id"), req.NewCapacity, req.Reason, req.UpdatedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSlot removes a single slot by id.
func (hb *HandlerBundle) DeleteSlot(c *gin.Context) {
	if err := hb.Slots.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// DeleteSlotRange removes all slots between startDate and endDate inclusive.
func (hb *HandlerBundle) DeleteSlotRange(c *gin.Context) {
	var req struct {
		StartDate string `json:"startDate" binding:"required"`
		EndDate   string `json:"endDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	deleted, err := hb.Slots.DeleteRange(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// GetCapacityOverrideHistory returns the capacity-change audit trail.
func (hb *HandlerBundle) GetCapacityOverrideHistory(c *gin.Context) {
	history, err := hb.Slots.CapacityOverrideHistory(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetSpecialSlotHistory returns the special-slot generation audit trail.
func (hb *HandlerBundle) GetSpecialSlotHistory(c *gin.Context) {
	history, err := hb.Slots.SpecialSlotHistory(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
