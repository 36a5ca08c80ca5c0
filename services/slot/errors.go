package slot

import (
	"fmt"

	slotRepo "telecare/database/repository/slot"
)

// Storage sentinels surface unchanged; callers match with errors.Is.
var (
	ErrSlotUnavailable = slotRepo.ErrSlotUnavailable
	ErrSlotNotFound    = slotRepo.ErrSlotNotFound
	ErrInvalidCapacity = slotRepo.ErrInvalidCapacity
)

// ValidationError rejects malformed input before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
