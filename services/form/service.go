package form

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	formRepo "telecare/database/repository/form"
	"telecare/models"
	slotSvc "telecare/services/slot"
)

// FormService manages paid intake forms. Payment state transitions happen in
// reconciliation, not here.
type FormService interface {
	Create(ctx context.Context, f *models.Form) (*models.Form, error)
	GetByID(ctx context.Context, id string) (*models.Form, error)
}

// DefaultFormService is the production implementation.
type DefaultFormService struct {
	Repo   formRepo.FormRepository
	Logger *zap.Logger
}

func (s *DefaultFormService) Create(ctx context.Context, f *models.Form) (*models.Form, error) {
	if f.Name == "" {
		return nil, slotSvc.NewValidationError("name", "is required")
	}
	if f.Email == "" {
		return nil, slotSvc.NewValidationError("email", "is required")
	}
	now := time.Now()
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	f.PaymentStatus = models.FormPaymentPending
	f.CreatedAt = now
	f.UpdatedAt = now
	if err := s.Repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.Logger.Info("intake form created", zap.String("formId", f.ID))
	return f, nil
}

func (s *DefaultFormService) GetByID(ctx context.Context, id string) (*models.Form, error) {
	return s.Repo.GetByID(ctx, id)
}
