package slotRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"telecare/database"
	"telecare/models"
)

var (
	// ErrSlotNotFound is returned when a slot lookup misses.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrSlotUnavailable is returned by Reserve when no matching slot has
	// capacity left at the moment of the attempt.
	ErrSlotUnavailable = errors.New("slot full or unavailable")
	// ErrInvalidCapacity is returned by SetCapacity when the new capacity
	// would fall below the seats already consumed.
	ErrInvalidCapacity = errors.New("new capacity below already consumed seats")
)

// SlotRepository persists TimeSlots. Reserve, Release and SetCapacity are
// single conditional updates at the storage layer; there is no
// read-modify-write window between observing remaining and changing it.
type SlotRepository interface {
	// InsertIgnoreExisting inserts slots, silently skipping (date, time)
	// pairs that already exist. Returns the slots actually created.
	InsertIgnoreExisting(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error)

	GetByID(ctx context.Context, id string) (*models.TimeSlot, error)
	GetByDateTime(ctx context.Context, date, hhmm string) (*models.TimeSlot, error)
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
	// ListBookable returns visible slots with remaining capacity on or after
	// fromDate, ordered by date then time.
	ListBookable(ctx context.Context, fromDate string) ([]models.TimeSlot, error)

	// Reserve decrements remaining by one, only if the slot is visible and
	// remaining > 0. Returns the updated slot, or ErrSlotUnavailable.
	Reserve(ctx context.Context, date, hhmm string) (*models.TimeSlot, error)
	// Release increments remaining by one, clamped at capacity. A release
	// against a missing or already-full slot is a no-op and returns nil.
	Release(ctx context.Context, date, hhmm string) (*models.TimeSlot, error)
	// SetCapacity rewrites capacity and re-derives remaining from the seats
	// already consumed, appending a history entry, all in one conditional
	// update. Returns ErrInvalidCapacity if consumed seats exceed the new
	// capacity.
	SetCapacity(ctx context.Context, slotID string, newCapacity int, reason string) (*models.TimeSlot, error)

	DeleteByID(ctx context.Context, id string) error
	DeleteRange(ctx context.Context, startDate, endDate string) (int64, error)
	// DeleteBefore removes every slot dated strictly before the given date.
	DeleteBefore(ctx context.Context, date string) (int64, error)

	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a Mongo-backed SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{coll: database.DB().Collection("timeslots")}
}
