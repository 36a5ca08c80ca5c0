package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "telecare/database/repository/booking"
	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	"telecare/models"
	"telecare/services/availability"
)

type availabilityFixture struct {
	svc       *availability.DefaultAvailabilityService
	providers *providerRepo.MemoryProviderRepo
	overrides *overrideRepo.MemoryOverrideRepo
	bookings  *bookingRepo.MemoryBookingRepo
}

func newAvailabilityFixture(t *testing.T, policy string) *availabilityFixture {
	t.Helper()
	f := &availabilityFixture{
		providers: providerRepo.NewMemoryProviderRepo(),
		overrides: overrideRepo.NewMemoryOverrideRepo(),
		bookings:  bookingRepo.NewMemoryBookingRepo(),
	}
	f.svc = &availability.DefaultAvailabilityService{
		Providers: f.providers,
		Overrides: f.overrides,
		Bookings:  f.bookings,
		Policy:    policy,
		Logger:    zap.NewNop(),
		Location:  time.UTC,
	}
	return f
}

func (f *availabilityFixture) addProvider(t *testing.T, name string, weekly []models.WeeklyAvailability) *models.Provider {
	t.Helper()
	p := &models.Provider{
		Name:               name,
		Email:              name + "@x.test",
		Status:             models.ProviderStatusActive,
		WeeklyAvailability: weekly,
	}
	require.NoError(t, f.providers.Create(context.Background(), p))
	return p
}

func mondayMorning() []models.WeeklyAvailability {
	return []models.WeeklyAvailability{{Day: time.Monday, Start: "09:00", End: "12:00"}}
}

func TestDateOverrideSupersedesWeeklyRule(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyFirstFit)
	p := f.addProvider(t, "p1", mondayMorning())

	// 2025-06-02 is a Monday. The override closes the morning entirely.
	_, err := f.overrides.Upsert(context.Background(), &models.DateOverride{
		ProviderID: p.ID,
		Date:       "2025-06-02",
		Start:      "13:00",
		End:        "15:00",
		Reason:     "closed all morning",
	})
	require.NoError(t, err)

	ok, err := f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-02", "14:00")
	require.NoError(t, err)
	assert.True(t, ok)

	// Other Mondays keep the weekly rule.
	ok, err = f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-09", "10:00")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMonthlyEntryGovernsItsDate(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyFirstFit)
	p := f.addProvider(t, "p1", mondayMorning())

	_, err := f.providers.UpsertMonthlyAvailability(context.Background(), p.ID, models.MonthlyAvailability{
		Year:  2025,
		Month: time.June,
		Days: []models.MonthlyDay{
			{Date: "2025-06-02", Start: "14:00", End: "16:00", Available: true},
		},
	})
	require.NoError(t, err)

	// The monthly window replaces the weekly morning window for that date.
	ok, err := f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-02", "15:00")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWeeklyWindowIsHalfOpen(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyFirstFit)
	p := f.addProvider(t, "p1", mondayMorning())

	cases := []struct {
		at   string
		want bool
	}{
		{"08:59", false},
		{"09:00", true},
		{"11:59", true},
		{"12:00", false},
	}
	for _, tc := range cases {
		ok, err := f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-02", tc.at)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "at %s", tc.at)
	}

	// No weekly entry for Tuesdays at all.
	ok, err := f.svc.IsProviderAvailable(context.Background(), p.ID, "2025-06-03", "10:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindAvailableProviderFirstFitFollowsCreationOrder(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyFirstFit)
	p1 := f.addProvider(t, "p1", mondayMorning())
	p2 := f.addProvider(t, "p2", mondayMorning())

	chosen, err := f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, p1.ID, chosen.ID)

	// A non-canceled booking at the exact time skips p1.
	require.NoError(t, f.bookings.Create(context.Background(), &models.Booking{
		ProviderID: p1.ID,
		Date:       "2025-06-02",
		Time:       "10:00",
		Status:     models.BookingStatusPending,
	}))
	chosen, err = f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, p2.ID, chosen.ID)
}

func TestFindAvailableProviderSkipsInactiveAndUnavailable(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyFirstFit)
	p1 := f.addProvider(t, "p1", mondayMorning())
	p2 := f.addProvider(t, "p2", mondayMorning())

	_, err := f.providers.SetStatus(context.Background(), p1.ID, models.StatusChange{
		Status:    models.ProviderStatusInactive,
		Reason:    "leave",
		FromDate:  time.Now(),
		ChangedAt: time.Now(),
	})
	require.NoError(t, err)

	chosen, err := f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, p2.ID, chosen.ID)

	// Nobody works Sundays.
	chosen, err = f.svc.FindAvailableProvider(context.Background(), "2025-06-01", "10:00")
	require.NoError(t, err)
	assert.Nil(t, chosen)
}

func TestFindAvailableProviderLeastLoaded(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyLeastLoaded)
	p1 := f.addProvider(t, "p1", mondayMorning())
	p2 := f.addProvider(t, "p2", mondayMorning())

	// p1 already carries two bookings that day, p2 none.
	for _, at := range []string{"09:00", "09:30"} {
		require.NoError(t, f.bookings.Create(context.Background(), &models.Booking{
			ProviderID: p1.ID,
			Date:       "2025-06-02",
			Time:       at,
			Status:     models.BookingStatusPending,
		}))
	}

	chosen, err := f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, p2.ID, chosen.ID)

	// Ties break by creation order.
	require.NoError(t, f.bookings.Create(context.Background(), &models.Booking{
		ProviderID: p2.ID,
		Date:       "2025-06-02",
		Time:       "09:00",
		Status:     models.BookingStatusPending,
	}))
	require.NoError(t, f.bookings.Create(context.Background(), &models.Booking{
		ProviderID: p2.ID,
		Date:       "2025-06-02",
		Time:       "09:30",
		Status:     models.BookingStatusPending,
	}))
	chosen, err = f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, p1.ID, chosen.ID)
}

func TestDateOverrideAffectsAutomaticAssignment(t *testing.T) {
	f := newAvailabilityFixture(t, availability.PolicyFirstFit)
	p1 := f.addProvider(t, "p1", mondayMorning())

	_, err := f.overrides.Upsert(context.Background(), &models.DateOverride{
		ProviderID: p1.ID,
		Date:       "2025-06-02",
		Start:      "13:00",
		End:        "15:00",
	})
	require.NoError(t, err)

	chosen, err := f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.Nil(t, chosen)

	chosen, err = f.svc.FindAvailableProvider(context.Background(), "2025-06-02", "14:00")
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, p1.ID, chosen.ID)
}
