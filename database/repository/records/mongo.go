package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telecare/models"
)

func (r *mongoRecordRepo) AddCapacityOverride(ctx context.Context, rec models.CapacityOverrideHistory) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return insert(ctx, r.capacityColl, rec, "capacity override history")
}

func (r *mongoRecordRepo) ListCapacityOverrides(ctx context.Context) ([]models.CapacityOverrideHistory, error) {
	return list[models.CapacityOverrideHistory](ctx, r.capacityColl, "capacity override history")
}

func (r *mongoRecordRepo) AddSpecialSlotHistory(ctx context.Context, rec models.SpecialSlotHistory) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return insert(ctx, r.specialColl, rec, "special slot history")
}

func (r *mongoRecordRepo) ListSpecialSlotHistory(ctx context.Context) ([]models.SpecialSlotHistory, error) {
	return list[models.SpecialSlotHistory](ctx, r.specialColl, "special slot history")
}

func (r *mongoRecordRepo) AddReconciliationConflict(ctx context.Context, rec models.ReconciliationConflict) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return insert(ctx, r.conflictsColl, rec, "reconciliation conflict")
}

func (r *mongoRecordRepo) ListReconciliationConflicts(ctx context.Context, unresolvedOnly bool) ([]models.ReconciliationConflict, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if unresolvedOnly {
		filter["resolved"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.conflictsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation conflicts: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.ReconciliationConflict
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding reconciliation conflicts: %w", err)
	}
	return out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc interface{}, what string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert %s: %w", what, err)
	}
	return nil
}

func list[T any](ctx context.Context, coll *mongo.Collection, what string) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", what, err)
	}
	return out, nil
}
