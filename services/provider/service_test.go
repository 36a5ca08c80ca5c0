package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	"telecare/models"
	"telecare/services/provider"
	slotSvc "telecare/services/slot"
)

func newProviderService(t *testing.T) (*provider.DefaultProviderService, *providerRepo.MemoryProviderRepo) {
	t.Helper()
	repo := providerRepo.NewMemoryProviderRepo()
	svc := &provider.DefaultProviderService{
		Repo:      repo,
		Overrides: overrideRepo.NewMemoryOverrideRepo(),
		Logger:    zap.NewNop(),
		Location:  time.UTC,
	}
	return svc, repo
}

func TestRegisterDefaultsToActive(t *testing.T) {
	svc, _ := newProviderService(t)

	p, err := svc.Register(context.Background(), &models.Provider{Name: "Dr A", Email: "a@x.test"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.ProviderStatusActive, p.Status)

	_, err = svc.Register(context.Background(), &models.Provider{Email: "b@x.test"})
	var verr *slotSvc.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSetWeeklyAvailabilityRejectsDuplicateWeekday(t *testing.T) {
	svc, _ := newProviderService(t)
	p, err := svc.Register(context.Background(), &models.Provider{Name: "Dr A", Email: "a@x.test"})
	require.NoError(t, err)

	_, err = svc.SetWeeklyAvailability(context.Background(), p.ID, []models.WeeklyAvailability{
		{Day: time.Monday, Start: "09:00", End: "12:00"},
		{Day: time.Monday, Start: "13:00", End: "17:00"},
	})
	var verr *slotSvc.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.SetWeeklyAvailability(context.Background(), p.ID, []models.WeeklyAvailability{
		{Day: time.Monday, Start: "12:00", End: "09:00"},
	})
	require.ErrorAs(t, err, &verr)

	updated, err := svc.SetWeeklyAvailability(context.Background(), p.ID, []models.WeeklyAvailability{
		{Day: time.Monday, Start: "09:00", End: "12:00"},
		{Day: time.Tuesday, Start: "09:00", End: "12:00"},
	})
	require.NoError(t, err)
	assert.Len(t, updated.WeeklyAvailability, 2)
}

func TestUpsertMonthlyAvailabilityValidatesDates(t *testing.T) {
	svc, _ := newProviderService(t)
	p, err := svc.Register(context.Background(), &models.Provider{Name: "Dr A", Email: "a@x.test"})
	require.NoError(t, err)

	_, err = svc.UpsertMonthlyAvailability(context.Background(), p.ID, models.MonthlyAvailability{
		Year:  2025,
		Month: time.June,
		Days:  []models.MonthlyDay{{Date: "2025-07-01", Start: "09:00", End: "12:00", Available: true}},
	})
	var verr *slotSvc.ValidationError
	require.ErrorAs(t, err, &verr)

	updated, err := svc.UpsertMonthlyAvailability(context.Background(), p.ID, models.MonthlyAvailability{
		Year:  2025,
		Month: time.June,
		Days:  []models.MonthlyDay{{Date: "2025-06-02", Start: "09:00", End: "12:00", Available: true}},
	})
	require.NoError(t, err)
	require.Len(t, updated.MonthlyAvailability, 1)

	// Replacing the same month does not duplicate the entry.
	updated, err = svc.UpsertMonthlyAvailability(context.Background(), p.ID, models.MonthlyAvailability{
		Year:  2025,
		Month: time.June,
		Days:  []models.MonthlyDay{{Date: "2025-06-09", Start: "09:00", End: "12:00", Available: true}},
	})
	require.NoError(t, err)
	require.Len(t, updated.MonthlyAvailability, 1)
	assert.Equal(t, "2025-06-09", updated.MonthlyAvailability[0].Days[0].Date)
}

func TestSetStatusAppendsHistory(t *testing.T) {
	svc, _ := newProviderService(t)
	p, err := svc.Register(context.Background(), &models.Provider{Name: "Dr A", Email: "a@x.test"})
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), p.ID, models.ProviderStatusInactive, "annual leave", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusInactive, updated.Status)
	require.Len(t, updated.StatusHistory, 1)
	assert.Equal(t, "annual leave", updated.StatusHistory[0].Reason)

	_, err = svc.SetStatus(context.Background(), p.ID, "Retired", "", nil)
	var verr *slotSvc.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpsertDateOverrideRequiresExistingProvider(t *testing.T) {
	svc, _ := newProviderService(t)

	_, err := svc.UpsertDateOverride(context.Background(), &models.DateOverride{
		ProviderID: "ghost",
		Date:       "2025-06-02",
		Start:      "09:00",
		End:        "12:00",
	})
	require.ErrorIs(t, err, providerRepo.ErrProviderNotFound)

	p, err := svc.Register(context.Background(), &models.Provider{Name: "Dr A", Email: "a@x.test"})
	require.NoError(t, err)

	saved, err := svc.UpsertDateOverride(context.Background(), &models.DateOverride{
		ProviderID: p.ID,
		Date:       "2025-06-02",
		Start:      "13:00",
		End:        "15:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	// Upsert replaces rather than duplicates.
	_, err = svc.UpsertDateOverride(context.Background(), &models.DateOverride{
		ProviderID: p.ID,
		Date:       "2025-06-02",
		Start:      "14:00",
		End:        "16:00",
	})
	require.NoError(t, err)

	overrides, err := svc.ListDateOverrides(context.Background(), p.ID, "", "")
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, "14:00", overrides[0].Start)
}
