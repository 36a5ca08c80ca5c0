package models

import "time"

// Booking statuses. Refunded is only reachable through payment
// reconciliation, never a direct status update.
const (
	BookingStatusPending   = "Pending"
	BookingStatusCompleted = "Completed"
	BookingStatusCanceled  = "Canceled"
	BookingStatusRefunded  = "Refunded"
)

// Payment statuses on a booking.
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusPaid     = "Paid"
	PaymentStatusRefunded = "Refunded"
)

// Booking is one reserved seat in a TimeSlot. Date and Time are denormalized
// from the slot that was consumed at creation. An empty ProviderID means
// unassigned, pending admin review. Bookings are never hard-deleted.
type Booking struct {
	ID           string `bson:"id" json:"id"`
	PatientName  string `bson:"patientName" json:"patientName"`
	PatientEmail string `bson:"patientEmail" json:"patientEmail"`
	Phone        string `bson:"phone" json:"phone"`
	DOB          string `bson:"dob" json:"dob"`
	Address      string `bson:"address" json:"address"`
	Service      string `bson:"service" json:"service"`
	Date         string `bson:"date" json:"date"`
	Time         string `bson:"time" json:"time"`

	ProviderID            string `bson:"providerId,omitempty" json:"providerId,omitempty"`
	AssignedAutomatically bool   `bson:"assignedAutomatically" json:"assignedAutomatically"`
	AssignedManually      bool   `bson:"assignedManually" json:"assignedManually"`

	Status            string     `bson:"status" json:"status"`
	PaymentStatus     string     `bson:"paymentStatus" json:"paymentStatus"`
	PaymentRef        string     `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	CheckoutSessionID string     `bson:"checkoutSessionId,omitempty" json:"checkoutSessionId,omitempty"`
	CompletedAt       *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	FormData  map[string]string `bson:"formData,omitempty" json:"formData,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// BookingInput is the validated payload for direct booking creation.
type BookingInput struct {
	PatientName  string            `json:"patientName" binding:"required"`
	PatientEmail string            `json:"patientEmail" binding:"required,email"`
	Phone        string            `json:"phone" binding:"required"`
	DOB          string            `json:"dob" binding:"required"`
	Address      string            `json:"address" binding:"required"`
	Service      string            `json:"service" binding:"required"`
	Date         string            `json:"date" binding:"required"`
	Time         string            `json:"time" binding:"required"`
	ProviderID   string            `json:"providerId"`
	FormData     map[string]string `json:"formData"`
}
