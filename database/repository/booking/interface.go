package bookingRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"telecare/database"
	"telecare/models"
)

var (
	// ErrBookingNotFound is returned when a booking lookup misses.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateSession is returned by Create when a booking with the same
	// checkout session id already exists. The unique index is the
	// serialization point for concurrent webhook deliveries.
	ErrDuplicateSession = errors.New("booking already exists for checkout session")
)

// BookingRepository persists Bookings. Bookings are soft-state only; there
// is no delete.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error

	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Booking, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)

	// HasActiveBookingAt reports whether the provider already holds a
	// non-canceled booking at the exact (date, time).
	HasActiveBookingAt(ctx context.Context, providerID, date, hhmm string) (bool, error)
	// CountActiveOnDate counts a provider's non-canceled bookings on a date;
	// used by the least-loaded assignment policy.
	CountActiveOnDate(ctx context.Context, providerID, date string) (int64, error)

	UpdateStatus(ctx context.Context, id, status string, completedAt *time.Time) (*models.Booking, error)
	// UpdateAssignment reassigns or unassigns the booking's provider.
	// Capacity is untouched; it was consumed at creation.
	UpdateAssignment(ctx context.Context, id, providerID string, auto, manual bool) (*models.Booking, error)
	// MarkRefunded flips status and paymentStatus to Refunded and clears the
	// provider assignment, only if the booking is not already refunded.
	// Returns (nil, nil) when it already was, making refund replays no-ops.
	MarkRefunded(ctx context.Context, id string) (*models.Booking, error)

	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a Mongo-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{coll: database.DB().Collection("bookings")}
}
