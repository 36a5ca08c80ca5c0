package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"telecare/models"
	"telecare/utils"
)

// CreateForm stores a patient intake form in the pending-payment state.
func (hb *HandlerBundle) CreateForm(c *gin.Context) {
	var f models.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	created, err := hb.Forms.Create(c.Request.Context(), &f)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetForm returns one form by id.
func (hb *HandlerBundle) GetForm(c *gin.Context) {
	f, err := hb.Forms.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
