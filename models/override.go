package models

import "time"

// DateOverride is a per-provider, per-date availability window that
// supersedes weekly and monthly rules for that date. Unique per
// (providerId, date).
type DateOverride struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Date       string    `bson:"date" json:"date"` // "2006-01-02"
	Start      string    `bson:"start" json:"start"`
	End        string    `bson:"end" json:"end"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
