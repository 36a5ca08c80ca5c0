package formRepo

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

func (r *mongoFormRepo) Create(ctx context.Context, f *models.Form) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.PaymentStatus == "" {
		f.PaymentStatus = models.FormPaymentPending
	}
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}
	return nil
}

func (r *mongoFormRepo) GetByID(ctx context.Context, id string) (*models.Form, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoFormRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Form, error) {
	return r.findOne(ctx, bson.M{"checkoutSessionId": sessionID})
}

func (r *mongoFormRepo) findOne(ctx context.Context, filter bson.M) (*models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var f models.Form
	err := r.coll.FindOne(ctx, filter).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form: %w", err)
	}
	return &f, nil
}

func (r *mongoFormRepo) MarkPaid(ctx context.Context, id, sessionID, paymentRef string) (*models.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"paymentStatus":     models.FormPaymentPaid,
		"checkoutSessionId": sessionID,
		"paymentRef":        paymentRef,
		"updatedAt":         time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var f models.Form
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark form paid: %w", err)
	}
	return &f, nil
}

func (r *mongoFormRepo) MarkRefundedByPaymentRef(ctx context.Context, paymentRef string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"paymentStatus": models.FormPaymentRefunded,
		"updatedAt":     time.Now(),
	}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"paymentRef": paymentRef}, update); err != nil {
		return fmt.Errorf("failed to mark form refunded: %w", err)
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the forms collection.
func (r *mongoFormRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "checkoutSessionId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_checkout_session").
				SetPartialFilterExpression(bson.M{"checkoutSessionId": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "paymentRef", Value: 1}},
			Options: options.Index().SetName("payment_ref_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create form indexes: %w", err)
	}
	return nil
}
