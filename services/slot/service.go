package slot

import (
	"context"
	"time"

	"go.uber.org/zap"

	recordsRepo "telecare/database/repository/records"
	slotRepo "telecare/database/repository/slot"
	"telecare/models"
	"telecare/services/events"
	"telecare/utils"
)

// SlotService owns capacity bookkeeping for time slots. Reserve and Release
// are the only paths that move remaining; both delegate to single conditional
// storage updates, so concurrent callers cannot oversell a slot.
type SlotService interface {
	GenerateTemplateSlots(ctx context.Context, req models.GenerateTemplateRequest) ([]models.TimeSlot, error)
	GenerateSpecialSlots(ctx context.Context, req models.GenerateSpecialRequest) ([]models.TimeSlot, error)

	Reserve(ctx context.Context, date, hhmm string) (*models.TimeSlot, error)
	Release(ctx context.Context, date, hhmm string) (*models.TimeSlot, error)
	SetCapacity(ctx context.Context, slotID string, newCapacity int, reason, actor string) (*models.TimeSlot, error)

	ListBookable(ctx context.Context) ([]models.TimeSlot, error)
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteRange(ctx context.Context, startDate, endDate string) (int64, error)
	// SweepExpired deletes all slots dated before today in the service time
	// zone. Idempotent; safe to interleave with reservations.
	SweepExpired(ctx context.Context) (int64, error)

	CapacityOverrideHistory(ctx context.Context) ([]models.CapacityOverrideHistory, error)
	SpecialSlotHistory(ctx context.Context) ([]models.SpecialSlotHistory, error)
}

// ActiveProviderCounter supplies the default capacity for template
// generation. Satisfied by the provider repository.
type ActiveProviderCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// DefaultSlotService is the production implementation.
type DefaultSlotService struct {
	Repo      slotRepo.SlotRepository
	Providers ActiveProviderCounter
	Records   recordsRepo.RecordRepository
	Events    events.Publisher
	Logger    *zap.Logger
	Location  *time.Location
}

func (s *DefaultSlotService) Reserve(ctx context.Context, date, hhmm string) (*models.TimeSlot, error) {
	slot, err := s.Repo.Reserve(ctx, date, hhmm)
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, models.EventSlotReserved, slot)
	return slot, nil
}

func (s *DefaultSlotService) Release(ctx context.Context, date, hhmm string) (*models.TimeSlot, error) {
	slot, err := s.Repo.Release(ctx, date, hhmm)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		// Slot deleted or already at capacity; contractually a no-op.
		s.Logger.Info("release was a no-op", zap.String("date", date), zap.String("time", hhmm))
		return nil, nil
	}
	s.Events.Publish(ctx, models.EventSlotReleased, slot)
	return slot, nil
}

func (s *DefaultSlotService) SetCapacity(ctx context.Context, slotID string, newCapacity int, reason, actor string) (*models.TimeSlot, error) {
	if newCapacity < 1 {
		return nil, NewValidationError("newCapacity", "must be at least 1")
	}

	updated, err := s.Repo.SetCapacity(ctx, slotID, newCapacity, reason)
	if err != nil {
		return nil, err
	}

	oldCapacity := newCapacity
	if n := len(updated.History); n > 0 {
		oldCapacity = updated.History[n-1].OldCapacity
	}
	record := models.CapacityOverrideHistory{
		SlotDate:    updated.Date,
		SlotTime:    updated.Time,
		OldCapacity: oldCapacity,
		NewCapacity: newCapacity,
		Reason:      reason,
		UpdatedBy:   actor,
	}
	if err := s.Records.AddCapacityOverride(ctx, record); err != nil {
		s.Logger.Error("failed to record capacity override", zap.Error(err))
	}

	s.Events.Publish(ctx, models.EventSlotCapacityChanged, updated)
	return updated, nil
}

func (s *DefaultSlotService) ListBookable(ctx context.Context) ([]models.TimeSlot, error) {
	return s.Repo.ListBookable(ctx, utils.Today(s.Location))
}

func (s *DefaultSlotService) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	return s.Repo.ListAll(ctx)
}

func (s *DefaultSlotService) DeleteByID(ctx context.Context, id string) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.Events.Publish(ctx, models.EventSlotsDeleted, map[string]interface{}{"slotId": id})
	return nil
}

func (s *DefaultSlotService) DeleteRange(ctx context.Context, startDate, endDate string) (int64, error) {
	if startDate == "" || endDate == "" {
		return 0, NewValidationError("range", "startDate and endDate are required")
	}
	deleted, err := s.Repo.DeleteRange(ctx, startDate, endDate)
	if err != nil {
		return 0, err
	}
	s.Events.Publish(ctx, models.EventSlotsDeleted, map[string]interface{}{
		"startDate": startDate,
		"endDate":   endDate,
		"count":     deleted,
	})
	return deleted, nil
}

func (s *DefaultSlotService) SweepExpired(ctx context.Context) (int64, error) {
	today := utils.Today(s.Location)
	deleted, err := s.Repo.DeleteBefore(ctx, today)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.Logger.Info("deleted expired slots",
			zap.Int64("count", deleted), zap.String("before", today))
		s.Events.Publish(ctx, models.EventSlotsDeleted, map[string]interface{}{
			"before": today,
			"count":  deleted,
		})
	}
	return deleted, nil
}

func (s *DefaultSlotService) CapacityOverrideHistory(ctx context.Context) ([]models.CapacityOverrideHistory, error) {
	return s.Records.ListCapacityOverrides(ctx)
}

func (s *DefaultSlotService) SpecialSlotHistory(ctx context.Context) ([]models.SpecialSlotHistory, error) {
	return s.Records.ListSpecialSlotHistory(ctx)
}
