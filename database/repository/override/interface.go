package overrideRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"telecare/database"
	"telecare/models"
)

// ErrOverrideNotFound is returned when an override lookup misses.
var ErrOverrideNotFound = errors.New("date override not found")

// OverrideRepository persists per-provider, per-date availability overrides.
// At most one override exists per (provider, date); Upsert replaces.
type OverrideRepository interface {
	Upsert(ctx context.Context, o *models.DateOverride) (*models.DateOverride, error)
	GetByProviderAndDate(ctx context.Context, providerID, date string) (*models.DateOverride, error)
	List(ctx context.Context, providerID, startDate, endDate string) ([]models.DateOverride, error)
	Delete(ctx context.Context, providerID, date string) error

	EnsureIndexes() error
}

type mongoOverrideRepo struct {
	coll *mongo.Collection
}

// NewMongoOverrideRepo constructs a Mongo-backed OverrideRepository.
func NewMongoOverrideRepo() OverrideRepository {
	return &mongoOverrideRepo{coll: database.DB().Collection("date_overrides")}
}
