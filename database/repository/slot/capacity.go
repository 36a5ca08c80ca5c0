package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telecare/models"
)

// Reserve performs the conditional decrement in a single update. Two
// concurrent calls against a slot with remaining=1 match the filter at most
// once; the loser gets ErrSlotUnavailable.
func (r *mongoSlotRepo) Reserve(ctx context.Context, date, hhmm string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":      date,
		"time":      hhmm,
		"visible":   true,
		"remaining": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"remaining": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.TimeSlot
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reserve slot %s %s: %w", date, hhmm, err)
	}
	return &slot, nil
}

// Release's filter clamps remaining at capacity; a slot deleted by an admin
// in the meantime simply no longer matches, which is a no-op per contract.
func (r *mongoSlotRepo) Release(ctx context.Context, date, hhmm string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":  date,
		"time":  hhmm,
		"$expr": bson.M{"$lt": bson.A{"$remaining", "$capacity"}},
	}
	update := bson.M{
		"$inc": bson.M{"remaining": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.TimeSlot
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release slot %s %s: %w", date, hhmm, err)
	}
	return &slot, nil
}

// SetCapacity uses a pipeline update so capacity, remaining and the history
// entry change together. The $expr filter refuses any newCapacity below the
// seats already consumed, so remaining can never be driven negative.
func (r *mongoSlotRepo) SetCapacity(ctx context.Context, slotID string, newCapacity int, reason string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	consumed := bson.M{"$subtract": bson.A{"$capacity", "$remaining"}}
	filter := bson.M{
		"id":    slotID,
		"$expr": bson.M{"$lte": bson.A{consumed, newCapacity}},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"remaining": bson.M{"$subtract": bson.A{newCapacity, consumed}},
			"history": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$history", bson.A{}}},
				bson.A{bson.M{
					"oldCapacity": "$capacity",
					"newCapacity": newCapacity,
					"reason":      reason,
					"changedAt":   now,
				}},
			}},
			"capacity":  newCapacity,
			"updatedAt": now,
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.TimeSlot
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing slot from a rejected shrink.
		if _, lookupErr := r.GetByID(ctx, slotID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrInvalidCapacity
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update capacity for slot %s: %w", slotID, err)
	}
	return &slot, nil
}
