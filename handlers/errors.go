package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bookingRepo "telecare/database/repository/booking"
	formRepo "telecare/database/repository/form"
	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	bookingSvc "telecare/services/booking"
	slotSvc "telecare/services/slot"
	"telecare/utils"
)

// writeServiceError maps service-layer errors onto HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	var verr *slotSvc.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", verr.Error())
	case errors.Is(err, slotSvc.ErrSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, "slot full or unavailable", "")
	case errors.Is(err, slotSvc.ErrInvalidCapacity):
		utils.JSONError(c, http.StatusConflict, "capacity below consumed seats", "")
	case errors.Is(err, slotSvc.ErrSlotNotFound),
		errors.Is(err, bookingRepo.ErrBookingNotFound),
		errors.Is(err, providerRepo.ErrProviderNotFound),
		errors.Is(err, formRepo.ErrFormNotFound),
		errors.Is(err, overrideRepo.ErrOverrideNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, bookingSvc.ErrInvalidStatus):
		utils.JSONError(c, http.StatusBadRequest, "invalid status", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
