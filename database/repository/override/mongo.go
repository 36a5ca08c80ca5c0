package overrideRepo

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

func (r *mongoOverrideRepo) Upsert(ctx context.Context, o *models.DateOverride) (*models.DateOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"providerId": o.ProviderID, "date": o.Date}
	update := bson.M{
		"$set": bson.M{
			"start":     o.Start,
			"end":       o.End,
			"reason":    o.Reason,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"providerId": o.ProviderID,
			"date":       o.Date,
			"createdAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.DateOverride
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to upsert date override: %w", err)
	}
	return &saved, nil
}

func (r *mongoOverrideRepo) GetByProviderAndDate(ctx context.Context, providerID, date string) (*models.DateOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o models.DateOverride
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID, "date": date}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch date override: %w", err)
	}
	return &o, nil
}

func (r *mongoOverrideRepo) List(ctx context.Context, providerID, startDate, endDate string) ([]models.DateOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if providerID != "" {
		filter["providerId"] = providerID
	}
	dateRange := bson.M{}
	if startDate != "" {
		dateRange["$gte"] = startDate
	}
	if endDate != "" {
		dateRange["$lte"] = endDate
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list date overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []models.DateOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("error decoding date overrides: %w", err)
	}
	return overrides, nil
}

func (r *mongoOverrideRepo) Delete(ctx context.Context, providerID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"providerId": providerID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete date override: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// EnsureIndexes creates the unique (providerId, date) index backing the
// one-override-per-date rule.
func (r *mongoOverrideRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_provider_date"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create override indexes: %w", err)
	}
	return nil
}
