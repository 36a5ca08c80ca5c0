package models

import "time"

// Slot kinds.
const (
	SlotKindNormal  = "normal"
	SlotKindSpecial = "special"
)

// CapacityChange is one entry in a slot's capacity audit trail.
type CapacityChange struct {
	OldCapacity int       `bson:"oldCapacity" json:"oldCapacity"`
	NewCapacity int       `bson:"newCapacity" json:"newCapacity"`
	Reason      string    `bson:"reason" json:"reason"`
	ChangedAt   time.Time `bson:"changedAt" json:"changedAt"`
}

// TimeSlot is a fixed-capacity booking window, unique per (date, time).
// Remaining only moves through conditional reserve/release/capacity updates;
// it is never written back from a stale read.
type TimeSlot struct {
	ID             string           `bson:"id" json:"id"`
	Date           string           `bson:"date" json:"date"` // "2006-01-02"
	Time           string           `bson:"time" json:"time"` // "15:04"
	Kind           string           `bson:"kind" json:"kind"` // "normal" or "special"
	OverrideReason string           `bson:"overrideReason,omitempty" json:"overrideReason,omitempty"`
	Visible        bool             `bson:"visible" json:"visible"`
	Capacity       int              `bson:"capacity" json:"capacity"`
	Remaining      int              `bson:"remaining" json:"remaining"`
	History        []CapacityChange `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// WeeklyWindow is one day's slot-generation window in a weekly template.
type WeeklyWindow struct {
	Start string `bson:"start" json:"start" binding:"required"`
	End   string `bson:"end" json:"end" binding:"required"`
}

// GenerateTemplateRequest describes bulk slot generation across a date range.
// Capacity zero means "default to the number of active providers".
type GenerateTemplateRequest struct {
	StartDate       string                        `json:"startDate" binding:"required"`
	EndDate         string                        `json:"endDate" binding:"required"`
	IntervalMinutes int                           `json:"interval" binding:"required,min=1"`
	Weekly          map[time.Weekday]WeeklyWindow `json:"weeklySchedule" binding:"required"`
	Capacity        int                           `json:"capacity"`
}

// GenerateSpecialRequest describes one-off slot generation for a single date.
type GenerateSpecialRequest struct {
	Date            string `json:"date" binding:"required"`
	Start           string `json:"timeStart" binding:"required"`
	End             string `json:"timeEnd" binding:"required"`
	IntervalMinutes int    `json:"interval" binding:"required,min=1"`
	Capacity        int    `json:"capacity" binding:"required,min=1"`
	Reason          string `json:"reason" binding:"required"`
	CreatedBy       string `json:"createdBy"`
}
