package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "telecare/database/repository/booking"
	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	recordsRepo "telecare/database/repository/records"
	slotRepo "telecare/database/repository/slot"
	"telecare/models"
	"telecare/services/availability"
	"telecare/services/booking"
	"telecare/services/events"
	"telecare/services/slot"
)

// recordingNotifier captures fire-and-forget notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	notified []string
}

func (n *recordingNotifier) NotifyProvider(_ context.Context, providerID string, _ models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, providerID)
}

func (n *recordingNotifier) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notified...)
}

// failingBookingRepo makes Create fail while delegating everything else.
type failingBookingRepo struct {
	bookingRepo.BookingRepository
}

func (f *failingBookingRepo) Create(context.Context, *models.Booking) error {
	return errors.New("storage down")
}

type bookingFixture struct {
	svc       *booking.DefaultBookingService
	slots     *slotRepo.MemorySlotRepo
	bookings  *bookingRepo.MemoryBookingRepo
	providers *providerRepo.MemoryProviderRepo
	notifier  *recordingNotifier
	events    *events.MemoryPublisher
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		slots:     slotRepo.NewMemorySlotRepo(),
		bookings:  bookingRepo.NewMemoryBookingRepo(),
		providers: providerRepo.NewMemoryProviderRepo(),
		notifier:  &recordingNotifier{},
		events:    events.NewMemoryPublisher(),
	}
	logger := zap.NewNop()
	slotService := &slot.DefaultSlotService{
		Repo:      f.slots,
		Providers: f.providers,
		Records:   recordsRepo.NewMemoryRecordRepo(),
		Events:    f.events,
		Logger:    logger,
		Location:  time.UTC,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		Providers: f.providers,
		Overrides: overrideRepo.NewMemoryOverrideRepo(),
		Bookings:  f.bookings,
		Policy:    availability.PolicyFirstFit,
		Logger:    logger,
		Location:  time.UTC,
	}
	f.svc = &booking.DefaultBookingService{
		Repo:         f.bookings,
		Slots:        slotService,
		Availability: availabilityService,
		Notifier:     f.notifier,
		Events:       f.events,
		Logger:       logger,
	}
	return f
}

func (f *bookingFixture) seedSlot(t *testing.T, date, hhmm string, capacity int) {
	t.Helper()
	_, err := f.slots.InsertIgnoreExisting(context.Background(), []models.TimeSlot{{
		Date: date, Time: hhmm, Kind: models.SlotKindNormal,
		Visible: true, Capacity: capacity, Remaining: capacity,
	}})
	require.NoError(t, err)
}

func (f *bookingFixture) addMondayProvider(t *testing.T, name string) *models.Provider {
	t.Helper()
	p := &models.Provider{
		Name:   name,
		Email:  name + "@x.test",
		Status: models.ProviderStatusActive,
		WeeklyAvailability: []models.WeeklyAvailability{
			{Day: time.Monday, Start: "09:00", End: "17:00"},
		},
	}
	require.NoError(t, f.providers.Create(context.Background(), p))
	return p
}

func bookingInput(date, hhmm string) models.BookingInput {
	return models.BookingInput{
		PatientName:  "Jo Doe",
		PatientEmail: "jo@x.test",
		Phone:        "0851234567",
		DOB:          "1990-01-01",
		Address:      "1 Main St",
		Service:      "general",
		Date:         date,
		Time:         hhmm,
	}
}

func TestCreateConsumesSeatAndAutoAssigns(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 2)
	p := f.addMondayProvider(t, "p1")

	b, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, p.ID, b.ProviderID)
	assert.True(t, b.AssignedAutomatically)
	assert.False(t, b.AssignedManually)

	got, err := f.slots.GetByDateTime(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Remaining)

	assert.Equal(t, []string{p.ID}, f.notifier.calls())
	assert.Contains(t, f.events.Names(), models.EventBookingCreated)
}

func TestCreateWithoutProviderLeavesUnassigned(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)

	b, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.NoError(t, err)
	assert.Empty(t, b.ProviderID)
	assert.False(t, b.AssignedAutomatically)
	assert.Empty(t, f.notifier.calls())
}

func TestCreateManualProviderTrustedEvenIfUnavailable(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-01", "10:00", 1) // a Sunday; nobody is scheduled
	p := f.addMondayProvider(t, "p1")

	input := bookingInput("2025-06-01", "10:00")
	input.ProviderID = p.ID
	b, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, p.ID, b.ProviderID)
	assert.True(t, b.AssignedManually)
	assert.False(t, b.AssignedAutomatically)
}

func TestCreateFailsWhenSlotExhausted(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)

	_, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.ErrorIs(t, err, booking.ErrSlotUnavailable)
}

func TestCreateReleasesSeatWhenPersistFails(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)
	f.svc.Repo = &failingBookingRepo{BookingRepository: f.bookings}

	_, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.Error(t, err)

	// The reservation must not outlive the failure.
	got, err := f.slots.GetByDateTime(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Remaining)
}

func TestConcurrentCreatesNeverOverbook(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 2)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, booking.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 2, succeeded)

	got, err := f.slots.GetByDateTime(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)
}

func TestAssignAndUnassignDoNotTouchCapacity(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)
	p := f.addMondayProvider(t, "p1")

	b, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.NoError(t, err)

	// Return to admin queue.
	updated, err := f.svc.Assign(context.Background(), b.ID, "")
	require.NoError(t, err)
	assert.Empty(t, updated.ProviderID)
	assert.False(t, updated.AssignedManually)
	assert.False(t, updated.AssignedAutomatically)

	updated, err = f.svc.Assign(context.Background(), b.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ProviderID)
	assert.True(t, updated.AssignedManually)

	got, err := f.slots.GetByDateTime(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newBookingFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)

	b, err := f.svc.Create(context.Background(), bookingInput("2025-06-02", "10:00"))
	require.NoError(t, err)

	completed, err := f.svc.UpdateStatus(context.Background(), b.ID, models.BookingStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	// Reverting to Pending clears the completion stamp.
	pending, err := f.svc.UpdateStatus(context.Background(), b.ID, models.BookingStatusPending)
	require.NoError(t, err)
	assert.Nil(t, pending.CompletedAt)

	_, err = f.svc.UpdateStatus(context.Background(), b.ID, models.BookingStatusRefunded)
	require.ErrorIs(t, err, booking.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(context.Background(), b.ID, "Archived")
	require.ErrorIs(t, err, booking.ErrInvalidStatus)
}
