package slot_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	providerRepo "telecare/database/repository/provider"
	recordsRepo "telecare/database/repository/records"
	slotRepo "telecare/database/repository/slot"
	"telecare/models"
	"telecare/services/events"
	"telecare/services/slot"
	"telecare/utils"
)

type slotFixture struct {
	svc       *slot.DefaultSlotService
	slots     *slotRepo.MemorySlotRepo
	providers *providerRepo.MemoryProviderRepo
	records   *recordsRepo.MemoryRecordRepo
	events    *events.MemoryPublisher
}

func newSlotFixture(t *testing.T) *slotFixture {
	t.Helper()
	f := &slotFixture{
		slots:     slotRepo.NewMemorySlotRepo(),
		providers: providerRepo.NewMemoryProviderRepo(),
		records:   recordsRepo.NewMemoryRecordRepo(),
		events:    events.NewMemoryPublisher(),
	}
	f.svc = &slot.DefaultSlotService{
		Repo:      f.slots,
		Providers: f.providers,
		Records:   f.records,
		Events:    f.events,
		Logger:    zap.NewNop(),
		Location:  time.UTC,
	}
	return f
}

func (f *slotFixture) addActiveProviders(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := &models.Provider{Name: "P", Email: fmt.Sprintf("p%d@x.test", i), Status: models.ProviderStatusActive}
		require.NoError(t, f.providers.Create(context.Background(), p))
	}
}

func TestGenerateTemplateSlotsStepping(t *testing.T) {
	f := newSlotFixture(t)
	f.addActiveProviders(t, 3)

	// 2025-06-02 is a Monday; the range holds exactly one.
	created, err := f.svc.GenerateTemplateSlots(context.Background(), models.GenerateTemplateRequest{
		StartDate:       "2025-06-02",
		EndDate:         "2025-06-08",
		IntervalMinutes: 30,
		Weekly: map[time.Weekday]models.WeeklyWindow{
			time.Monday: {Start: "09:00", End: "11:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 4)

	times := make([]string, len(created))
	for i, s := range created {
		times[i] = s.Time
		assert.Equal(t, "2025-06-02", s.Date)
		assert.Equal(t, models.SlotKindNormal, s.Kind)
		assert.True(t, s.Visible)
		// Capacity defaults to the active provider count.
		assert.Equal(t, 3, s.Capacity)
		assert.Equal(t, 3, s.Remaining)
	}
	assert.ElementsMatch(t, []string{"09:00", "09:30", "10:00", "10:30"}, times)
}

func TestGenerateTemplateSlotsSkipsExisting(t *testing.T) {
	f := newSlotFixture(t)
	f.addActiveProviders(t, 1)

	req := models.GenerateTemplateRequest{
		StartDate:       "2025-06-02",
		EndDate:         "2025-06-02",
		IntervalMinutes: 60,
		Weekly: map[time.Weekday]models.WeeklyWindow{
			time.Monday: {Start: "09:00", End: "12:00"},
		},
	}
	first, err := f.svc.GenerateTemplateSlots(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := f.svc.GenerateTemplateSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, second)

	all, err := f.svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGenerateTemplateSlotsExplicitCapacity(t *testing.T) {
	f := newSlotFixture(t)

	created, err := f.svc.GenerateTemplateSlots(context.Background(), models.GenerateTemplateRequest{
		StartDate:       "2025-06-03",
		EndDate:         "2025-06-03",
		IntervalMinutes: 60,
		Weekly: map[time.Weekday]models.WeeklyWindow{
			time.Tuesday: {Start: "10:00", End: "11:00"},
		},
		Capacity: 5,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, 5, created[0].Capacity)
}

func TestGenerateTemplateSlotsRejectsBadInput(t *testing.T) {
	f := newSlotFixture(t)

	_, err := f.svc.GenerateTemplateSlots(context.Background(), models.GenerateTemplateRequest{
		StartDate:       "02/06/2025",
		EndDate:         "2025-06-08",
		IntervalMinutes: 30,
		Weekly:          map[time.Weekday]models.WeeklyWindow{time.Monday: {Start: "09:00", End: "11:00"}},
	})
	var verr *slot.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "startDate", verr.Field)

	_, err = f.svc.GenerateTemplateSlots(context.Background(), models.GenerateTemplateRequest{
		StartDate:       "2025-06-08",
		EndDate:         "2025-06-02",
		IntervalMinutes: 30,
		Weekly:          map[time.Weekday]models.WeeklyWindow{time.Monday: {Start: "09:00", End: "11:00"}},
	})
	require.ErrorAs(t, err, &verr)
}

func TestGenerateSpecialSlotsAlwaysRecordsHistory(t *testing.T) {
	f := newSlotFixture(t)

	req := models.GenerateSpecialRequest{
		Date:            "2025-06-07",
		Start:           "13:00",
		End:             "14:00",
		IntervalMinutes: 30,
		Capacity:        2,
		Reason:          "weekend clinic",
		CreatedBy:       "admin",
	}
	first, err := f.svc.GenerateSpecialSlots(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, models.SlotKindSpecial, first[0].Kind)
	assert.Equal(t, "weekend clinic", first[0].OverrideReason)

	// Re-running creates nothing but the audit entry is still written.
	second, err := f.svc.GenerateSpecialSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, second)

	history, err := f.svc.SpecialSlotHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestReserveConcurrentExactlyCapacitySucceed(t *testing.T) {
	f := newSlotFixture(t)
	seedSlot(t, f, "2025-06-01", "09:00", 2)

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Reserve(context.Background(), "2025-06-01", "09:00")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, slot.ErrSlotUnavailable)
			failed++
		}
	}
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, callers-2, failed)

	got, err := f.slots.GetByDateTime(context.Background(), "2025-06-01", "09:00")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)
}

func TestReleaseClampsAtCapacityAndToleratesMissing(t *testing.T) {
	f := newSlotFixture(t)
	seedSlot(t, f, "2025-06-01", "09:00", 1)

	// Release on a full slot is a no-op.
	got, err := f.svc.Release(context.Background(), "2025-06-01", "09:00")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.svc.Reserve(context.Background(), "2025-06-01", "09:00")
	require.NoError(t, err)

	got, err = f.svc.Release(context.Background(), "2025-06-01", "09:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Remaining)

	// Releasing a slot that never existed is also a no-op.
	got, err = f.svc.Release(context.Background(), "2099-01-01", "09:00")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetCapacityPreservesConsumedSeats(t *testing.T) {
	f := newSlotFixture(t)
	id := seedSlot(t, f, "2025-06-01", "09:00", 3)

	for i := 0; i < 2; i++ {
		_, err := f.svc.Reserve(context.Background(), "2025-06-01", "09:00")
		require.NoError(t, err)
	}

	// Cannot shrink below the two seats already consumed.
	_, err := f.svc.SetCapacity(context.Background(), id, 1, "downsizing", "admin")
	require.ErrorIs(t, err, slot.ErrInvalidCapacity)

	updated, err := f.svc.SetCapacity(context.Background(), id, 2, "downsizing", "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity)
	assert.Equal(t, 0, updated.Remaining)
	require.NotEmpty(t, updated.History)
	assert.Equal(t, 3, updated.History[len(updated.History)-1].OldCapacity)

	records, err := f.svc.CapacityOverrideHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].OldCapacity)
	assert.Equal(t, 2, records[0].NewCapacity)
	assert.Equal(t, "admin", records[0].UpdatedBy)
}

func TestSetCapacityRejectsNonPositive(t *testing.T) {
	f := newSlotFixture(t)
	id := seedSlot(t, f, "2025-06-01", "09:00", 2)

	_, err := f.svc.SetCapacity(context.Background(), id, 0, "zero", "admin")
	var verr *slot.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSweepExpiredDeletesOnlyPastSlots(t *testing.T) {
	f := newSlotFixture(t)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(utils.DateLayout)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(utils.DateLayout)
	seedSlot(t, f, yesterday, "09:00", 1)
	seedSlot(t, f, tomorrow, "09:00", 1)

	deleted, err := f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Idempotent.
	deleted, err = f.svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	all, err := f.svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, tomorrow, all[0].Date)
}

func TestReservePublishesEvent(t *testing.T) {
	f := newSlotFixture(t)
	seedSlot(t, f, "2025-06-01", "09:00", 1)

	_, err := f.svc.Reserve(context.Background(), "2025-06-01", "09:00")
	require.NoError(t, err)
	assert.Contains(t, f.events.Names(), models.EventSlotReserved)
}

func seedSlot(t *testing.T, f *slotFixture, date, hhmm string, capacity int) string {
	t.Helper()
	inserted, err := f.slots.InsertIgnoreExisting(context.Background(), []models.TimeSlot{{
		Date:      date,
		Time:      hhmm,
		Kind:      models.SlotKindNormal,
		Visible:   true,
		Capacity:  capacity,
		Remaining: capacity,
	}})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	return inserted[0].ID
}
