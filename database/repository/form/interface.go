package formRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"telecare/database"
	"telecare/models"
)

// ErrFormNotFound is returned when a form lookup misses.
var ErrFormNotFound = errors.New("form not found")

// FormRepository persists paid intake forms. Forms have no slot linkage;
// only their payment state participates in reconciliation.
type FormRepository interface {
	Create(ctx context.Context, f *models.Form) error

	GetByID(ctx context.Context, id string) (*models.Form, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Form, error)

	// MarkPaid stamps the payment session and reference onto the form and
	// flips paymentStatus to paid.
	MarkPaid(ctx context.Context, id, sessionID, paymentRef string) (*models.Form, error)
	// MarkRefundedByPaymentRef flips paymentStatus to refunded for the form
	// holding the given payment reference. Missing form is a no-op.
	MarkRefundedByPaymentRef(ctx context.Context, paymentRef string) error

	EnsureIndexes() error
}

type mongoFormRepo struct {
	coll *mongo.Collection
}

// NewMongoFormRepo constructs a Mongo-backed FormRepository.
func NewMongoFormRepo() FormRepository {
	return &mongoFormRepo{coll: database.DB().Collection("forms")}
}
