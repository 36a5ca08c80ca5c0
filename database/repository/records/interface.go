package recordsRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"telecare/database"
	"telecare/models"
)

// RecordRepository holds the append-only audit trails and the operator queue.
// The core only appends; reporting reads.
type RecordRepository interface {
	AddCapacityOverride(ctx context.Context, rec models.CapacityOverrideHistory) error
	ListCapacityOverrides(ctx context.Context) ([]models.CapacityOverrideHistory, error)

	AddSpecialSlotHistory(ctx context.Context, rec models.SpecialSlotHistory) error
	ListSpecialSlotHistory(ctx context.Context) ([]models.SpecialSlotHistory, error)

	AddReconciliationConflict(ctx context.Context, rec models.ReconciliationConflict) error
	ListReconciliationConflicts(ctx context.Context, unresolvedOnly bool) ([]models.ReconciliationConflict, error)
}

type mongoRecordRepo struct {
	capacityColl  *mongo.Collection
	specialColl   *mongo.Collection
	conflictsColl *mongo.Collection
}

// NewMongoRecordRepo constructs a Mongo-backed RecordRepository.
func NewMongoRecordRepo() RecordRepository {
	db := database.DB()
	return &mongoRecordRepo{
		capacityColl:  db.Collection("capacity_override_history"),
		specialColl:   db.Collection("special_slot_history"),
		conflictsColl: db.Collection("reconciliation_conflicts"),
	}
}
