package provider

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	"telecare/models"
	slotSvc "telecare/services/slot"
	"telecare/utils"
)

// ProviderService manages the provider directory and availability rules.
// Credentials and auth live outside this service.
type ProviderService interface {
	Register(ctx context.Context, p *models.Provider) (*models.Provider, error)
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	ListAll(ctx context.Context) ([]models.Provider, error)
	ListActive(ctx context.Context) ([]models.Provider, error)

	SetWeeklyAvailability(ctx context.Context, id string, windows []models.WeeklyAvailability) (*models.Provider, error)
	UpsertMonthlyAvailability(ctx context.Context, id string, month models.MonthlyAvailability) (*models.Provider, error)
	SetStatus(ctx context.Context, id, status, reason string, toDate *time.Time) (*models.Provider, error)

	UpsertDateOverride(ctx context.Context, o *models.DateOverride) (*models.DateOverride, error)
	ListDateOverrides(ctx context.Context, providerID, startDate, endDate string) ([]models.DateOverride, error)
	DeleteDateOverride(ctx context.Context, providerID, date string) error
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo      providerRepo.ProviderRepository
	Overrides overrideRepo.OverrideRepository
	Logger    *zap.Logger
	Location  *time.Location
}

func (s *DefaultProviderService) Register(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	if p.Name == "" {
		return nil, slotSvc.NewValidationError("name", "is required")
	}
	if p.Email == "" {
		return nil, slotSvc.NewValidationError("email", "is required")
	}
	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ProviderStatusActive
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.Info("provider registered", zap.String("providerId", p.ID))
	return p, nil
}

func (s *DefaultProviderService) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultProviderService) ListAll(ctx context.Context) ([]models.Provider, error) {
	return s.Repo.ListAll(ctx)
}

func (s *DefaultProviderService) ListActive(ctx context.Context) ([]models.Provider, error) {
	return s.Repo.ListActive(ctx)
}

func (s *DefaultProviderService) SetWeeklyAvailability(ctx context.Context, id string, windows []models.WeeklyAvailability) (*models.Provider, error) {
	seen := make(map[time.Weekday]bool, len(windows))
	for _, w := range windows {
		if seen[w.Day] {
			return nil, slotSvc.NewValidationError("weeklyAvailability", "at most one window per weekday")
		}
		seen[w.Day] = true
		if err := validateWindow(w.Start, w.End); err != nil {
			return nil, err
		}
	}
	return s.Repo.SetWeeklyAvailability(ctx, id, windows)
}

func (s *DefaultProviderService) UpsertMonthlyAvailability(ctx context.Context, id string, month models.MonthlyAvailability) (*models.Provider, error) {
	if month.Year < 2000 || month.Month < time.January || month.Month > time.December {
		return nil, slotSvc.NewValidationError("monthlyAvailability", "invalid year or month")
	}
	for _, day := range month.Days {
		d, err := utils.ParseDate(day.Date, s.Location)
		if err != nil {
			return nil, slotSvc.NewValidationError("monthlyAvailability", "day dates must be formatted as 2006-01-02")
		}
		if d.Year() != month.Year || d.Month() != month.Month {
			return nil, slotSvc.NewValidationError("monthlyAvailability", "day dates must fall inside the month")
		}
		if err := validateWindow(day.Start, day.End); err != nil {
			return nil, err
		}
	}
	return s.Repo.UpsertMonthlyAvailability(ctx, id, month)
}

func (s *DefaultProviderService) SetStatus(ctx context.Context, id, status, reason string, toDate *time.Time) (*models.Provider, error) {
	if status != models.ProviderStatusActive && status != models.ProviderStatusInactive {
		return nil, slotSvc.NewValidationError("status", "must be Active or Inactive")
	}
	change := models.StatusChange{
		Status:    status,
		Reason:    reason,
		FromDate:  time.Now(),
		ToDate:    toDate,
		ChangedAt: time.Now(),
	}
	updated, err := s.Repo.SetStatus(ctx, id, change)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("provider status changed",
		zap.String("providerId", id), zap.String("status", status))
	return updated, nil
}

func (s *DefaultProviderService) UpsertDateOverride(ctx context.Context, o *models.DateOverride) (*models.DateOverride, error) {
	if o.ProviderID == "" {
		return nil, slotSvc.NewValidationError("providerId", "is required")
	}
	if _, err := utils.ParseDate(o.Date, s.Location); err != nil {
		return nil, slotSvc.NewValidationError("date", "must be formatted as 2006-01-02")
	}
	if err := validateWindow(o.Start, o.End); err != nil {
		return nil, err
	}
	// The provider must exist; an override for a ghost id would silently
	// never match.
	if _, err := s.Repo.GetByID(ctx, o.ProviderID); err != nil {
		return nil, err
	}
	return s.Overrides.Upsert(ctx, o)
}

func (s *DefaultProviderService) ListDateOverrides(ctx context.Context, providerID, startDate, endDate string) ([]models.DateOverride, error) {
	return s.Overrides.List(ctx, providerID, startDate, endDate)
}

func (s *DefaultProviderService) DeleteDateOverride(ctx context.Context, providerID, date string) error {
	return s.Overrides.Delete(ctx, providerID, date)
}

func validateWindow(start, end string) error {
	sm, err := utils.TimeToMinutes(start)
	if err != nil {
		return slotSvc.NewValidationError("start", "must be formatted as 15:04")
	}
	em, err := utils.TimeToMinutes(end)
	if err != nil {
		return slotSvc.NewValidationError("end", "must be formatted as 15:04")
	}
	if sm >= em {
		return slotSvc.NewValidationError("window", "start must precede end")
	}
	return nil
}
