package models

import "time"

// CapacityOverrideHistory records an administrative capacity change on a
// slot. Append-only; read by reporting.
type CapacityOverrideHistory struct {
	ID          string    `bson:"id" json:"id"`
	SlotDate    string    `bson:"slotDate" json:"slotDate"`
	SlotTime    string    `bson:"slotTime" json:"slotTime"`
	OldCapacity int       `bson:"oldCapacity" json:"oldCapacity"`
	NewCapacity int       `bson:"newCapacity" json:"newCapacity"`
	Reason      string    `bson:"reason" json:"reason"`
	UpdatedBy   string    `bson:"updatedBy" json:"updatedBy"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// SpecialSlotHistory records a special-slot generation action. Written
// unconditionally: the administrative action is the auditable event, whether
// or not de-duplication inserted new slots.
type SpecialSlotHistory struct {
	ID              string    `bson:"id" json:"id"`
	Date            string    `bson:"date" json:"date"`
	Start           string    `bson:"start" json:"start"`
	End             string    `bson:"end" json:"end"`
	IntervalMinutes int       `bson:"interval" json:"interval"`
	Capacity        int       `bson:"capacity" json:"capacity"`
	Reason          string    `bson:"reason" json:"reason"`
	CreatedBy       string    `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// ReconciliationConflict is an operator-queue record for a completed payment
// whose slot capacity was exhausted before the webhook arrived. The payment
// is surfaced here rather than silently dropped.
type ReconciliationConflict struct {
	ID        string    `bson:"id" json:"id"`
	SessionID string    `bson:"sessionId" json:"sessionId"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	Reason    string    `bson:"reason" json:"reason"`
	Resolved  bool      `bson:"resolved" json:"resolved"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
