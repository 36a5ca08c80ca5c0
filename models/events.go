package models

import "time"

// Semantic event names broadcast to the external fan-out layer. The core
// publishes these; it does not manage subscribers.
const (
	EventSlotCreated         = "slot-created"
	EventSlotReserved        = "slot-reserved"
	EventSlotReleased        = "slot-released"
	EventSlotCapacityChanged = "slot-capacity-changed"
	EventSlotsDeleted        = "slots-deleted"
	EventBookingCreated      = "booking-created"
	EventBookingAssigned     = "booking-assigned"
	EventBookingStatusChanged = "booking-status-changed"
)

// Event is the envelope published on the fan-out channel.
type Event struct {
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}
