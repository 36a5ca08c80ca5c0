package models

import "time"

// Form payment statuses (lowercase, matching the payment-provider flow the
// forms were built against).
const (
	FormPaymentPending  = "pending"
	FormPaymentPaid     = "paid"
	FormPaymentFailed   = "failed"
	FormPaymentRefunded = "refunded"
)

// FormQuestion is one answered intake question.
type FormQuestion struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// Form is a paid patient intake record. Forms carry no slot capacity; only
// their payment state is reconciled.
type Form struct {
	ID          string         `bson:"id" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Email       string         `bson:"email" json:"email"`
	Phone       string         `bson:"phone,omitempty" json:"phone,omitempty"`
	DOB         string         `bson:"dob" json:"dob"`
	Address     string         `bson:"address" json:"address"`
	Category    string         `bson:"category,omitempty" json:"category,omitempty"`
	SubCategory string         `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Questions   []FormQuestion `bson:"questions,omitempty" json:"questions,omitempty"`

	CheckoutSessionID string `bson:"checkoutSessionId,omitempty" json:"checkoutSessionId,omitempty"`
	PaymentRef        string `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	PaymentStatus     string `bson:"paymentStatus" json:"paymentStatus"`

	AssignedProvider string     `bson:"assignedProvider,omitempty" json:"assignedProvider,omitempty"`
	AssignedAt       *time.Time `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
