package providerRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"telecare/database"
	"telecare/models"
)

// ErrProviderNotFound is returned when a provider lookup misses.
var ErrProviderNotFound = errors.New("provider not found")

// ProviderRepository persists Providers and their availability rules.
// Credential management lives outside this service; the repository only
// carries the directory and availability data the core consumes.
type ProviderRepository interface {
	Create(ctx context.Context, p *models.Provider) error

	GetByID(ctx context.Context, id string) (*models.Provider, error)
	ListAll(ctx context.Context) ([]models.Provider, error)
	// ListActive returns Active providers in creation order. The ordering is
	// part of the assignment contract: first-fit iterates it as-is.
	ListActive(ctx context.Context) ([]models.Provider, error)
	CountActive(ctx context.Context) (int64, error)

	SetWeeklyAvailability(ctx context.Context, id string, windows []models.WeeklyAvailability) (*models.Provider, error)
	// UpsertMonthlyAvailability replaces the entry for the month's
	// (year, month) pair, or appends it.
	UpsertMonthlyAvailability(ctx context.Context, id string, month models.MonthlyAvailability) (*models.Provider, error)
	// SetStatus updates the status and appends to the append-only history.
	SetStatus(ctx context.Context, id string, change models.StatusChange) (*models.Provider, error)

	EnsureIndexes() error
}

type mongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo constructs a Mongo-backed ProviderRepository.
func NewMongoProviderRepo() ProviderRepository {
	return &mongoProviderRepo{coll: database.DB().Collection("providers")}
}
