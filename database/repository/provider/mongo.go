package providerRepo

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

func (r *mongoProviderRepo) Create(ctx context.Context, p *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ProviderStatusActive
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert provider: %w", err)
	}
	return nil
}

func (r *mongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider %s: %w", id, err)
	}
	return &p, nil
}

func (r *mongoProviderRepo) ListAll(ctx context.Context) ([]models.Provider, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *mongoProviderRepo) ListActive(ctx context.Context) ([]models.Provider, error) {
	return r.findMany(ctx, bson.M{"status": models.ProviderStatusActive})
}

func (r *mongoProviderRepo) findMany(ctx context.Context, filter bson.M) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Creation order, oldest first; ties broken by id for a stable order.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("error decoding providers: %w", err)
	}
	return providers, nil
}

func (r *mongoProviderRepo) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"status": models.ProviderStatusActive})
	if err != nil {
		return 0, fmt.Errorf("failed to count active providers: %w", err)
	}
	return n, nil
}

func (r *mongoProviderRepo) SetWeeklyAvailability(ctx context.Context, id string, windows []models.WeeklyAvailability) (*models.Provider, error) {
	update := bson.M{"$set": bson.M{
		"weeklyAvailability": windows,
		"updatedAt":          time.Now(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *mongoProviderRepo) UpsertMonthlyAvailability(ctx context.Context, id string, month models.MonthlyAvailability) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Drop the existing entry for the month, then append the new one. Two
	// updates because $pull and $push cannot target the same field in one.
	pull := bson.M{"$pull": bson.M{"monthlyAvailability": bson.M{
		"year":  month.Year,
		"month": month.Month,
	}}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, pull); err != nil {
		return nil, fmt.Errorf("failed to clear monthly availability: %w", err)
	}

	push := bson.M{
		"$push": bson.M{"monthlyAvailability": month},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	return r.findOneAndUpdate(ctx, id, push)
}

func (r *mongoProviderRepo) SetStatus(ctx context.Context, id string, change models.StatusChange) (*models.Provider, error) {
	update := bson.M{
		"$set": bson.M{
			"status":    change.Status,
			"updatedAt": time.Now(),
		},
		"$push": bson.M{"statusHistory": change},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *mongoProviderRepo) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Provider
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update provider %s: %w", id, err)
	}
	return &p, nil
}

// EnsureIndexes creates the necessary indexes on the providers collection.
func (r *mongoProviderRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}
	return nil
}
