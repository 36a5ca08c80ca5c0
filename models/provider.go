package models

import "time"

// Provider statuses. Inactive providers are never considered for new
// assignments.
const (
	ProviderStatusActive   = "Active"
	ProviderStatusInactive = "Inactive"
)

// WeeklyAvailability is a recurring availability block, at most one per
// weekday. Times are "HH:MM"; the window is half-open [Start, End).
type WeeklyAvailability struct {
	Day   time.Weekday `bson:"day" json:"day"`
	Start string       `bson:"start" json:"start"`
	End   string       `bson:"end" json:"end"`
}

// MonthlyDay is a per-date entry inside a monthly availability override.
type MonthlyDay struct {
	Date      string `bson:"date" json:"date"` // "2006-01-02"
	Start     string `bson:"start" json:"start"`
	End       string `bson:"end" json:"end"`
	Available bool   `bson:"available" json:"available"`
}

// MonthlyAvailability groups date-level availability entries for one month.
type MonthlyAvailability struct {
	Year  int          `bson:"year" json:"year"`
	Month time.Month   `bson:"month" json:"month"`
	Days  []MonthlyDay `bson:"days" json:"days"`
}

// StatusChange is one entry in a provider's append-only status audit trail.
type StatusChange struct {
	Status    string     `bson:"status" json:"status"`
	Reason    string     `bson:"reason" json:"reason"`
	FromDate  time.Time  `bson:"fromDate" json:"fromDate"`
	ToDate    *time.Time `bson:"toDate,omitempty" json:"toDate,omitempty"`
	ChangedAt time.Time  `bson:"changedAt" json:"changedAt"`
}

// Provider is a practitioner eligible for booking assignment. Slot capacity
// is shared across providers; a provider is not tied to specific TimeSlots.
type Provider struct {
	ID             string `bson:"id" json:"id"`
	Name           string `bson:"name" json:"name"`
	Email          string `bson:"email" json:"email"`
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialization string `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience     int    `bson:"experience,omitempty" json:"experience,omitempty"`

	Status              string                `bson:"status" json:"status"`
	WeeklyAvailability  []WeeklyAvailability  `bson:"weeklyAvailability,omitempty" json:"weeklyAvailability,omitempty"`
	MonthlyAvailability []MonthlyAvailability `bson:"monthlyAvailability,omitempty" json:"monthlyAvailability,omitempty"`
	StatusHistory       []StatusChange        `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
