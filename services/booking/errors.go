package booking

import (
	"errors"

	bookingRepo "telecare/database/repository/booking"
	slotSvc "telecare/services/slot"
)

// Sentinels surfaced to handlers. Slot and repository errors pass through so
// the HTTP layer can map each to a status code.
var (
	ErrBookingNotFound = bookingRepo.ErrBookingNotFound
	ErrSlotUnavailable = slotSvc.ErrSlotUnavailable

	// ErrInvalidStatus rejects status values outside the booking state
	// machine, including Refunded as a direct target.
	ErrInvalidStatus = errors.New("invalid booking status transition")
)

// ValidationError mirrors the slot service's input error type.
type ValidationError = slotSvc.ValidationError

// NewValidationError constructs a field-level input error.
func NewValidationError(field, message string) error {
	return slotSvc.NewValidationError(field, message)
}
