package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "telecare/database/repository/booking"
	formRepo "telecare/database/repository/form"
	overrideRepo "telecare/database/repository/override"
	providerRepo "telecare/database/repository/provider"
	recordsRepo "telecare/database/repository/records"
	slotRepo "telecare/database/repository/slot"
	"telecare/models"
	"telecare/services/availability"
	"telecare/services/booking"
	"telecare/services/events"
	"telecare/services/payment"
	"telecare/services/slot"
)

type noopNotifier struct{}

func (noopNotifier) NotifyProvider(context.Context, string, models.Booking) {}

type paymentFixture struct {
	svc      *payment.DefaultPaymentService
	slots    *slotRepo.MemorySlotRepo
	bookings *bookingRepo.MemoryBookingRepo
	forms    *formRepo.MemoryFormRepo
	records  *recordsRepo.MemoryRecordRepo
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		slots:    slotRepo.NewMemorySlotRepo(),
		bookings: bookingRepo.NewMemoryBookingRepo(),
		forms:    formRepo.NewMemoryFormRepo(),
		records:  recordsRepo.NewMemoryRecordRepo(),
	}
	logger := zap.NewNop()
	providers := providerRepo.NewMemoryProviderRepo()
	publisher := events.NewMemoryPublisher()

	slotService := &slot.DefaultSlotService{
		Repo:      f.slots,
		Providers: providers,
		Records:   f.records,
		Events:    publisher,
		Logger:    logger,
		Location:  time.UTC,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		Providers: providers,
		Overrides: overrideRepo.NewMemoryOverrideRepo(),
		Bookings:  f.bookings,
		Policy:    availability.PolicyFirstFit,
		Logger:    logger,
		Location:  time.UTC,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:         f.bookings,
		Slots:        slotService,
		Availability: availabilityService,
		Notifier:     noopNotifier{},
		Events:       publisher,
		Logger:       logger,
	}
	f.svc = &payment.DefaultPaymentService{
		Bookings: bookingService,
		Repo:     f.bookings,
		Forms:    f.forms,
		Slots:    slotService,
		Records:  f.records,
		Events:   publisher,
		Logger:   logger,
	}
	return f
}

func (f *paymentFixture) seedSlot(t *testing.T, date, hhmm string, capacity int) {
	t.Helper()
	_, err := f.slots.InsertIgnoreExisting(context.Background(), []models.TimeSlot{{
		Date: date, Time: hhmm, Kind: models.SlotKindNormal,
		Visible: true, Capacity: capacity, Remaining: capacity,
	}})
	require.NoError(t, err)
}

func bookingMeta(date, hhmm string) payment.CheckoutMetadata {
	return payment.CheckoutMetadata{
		Type:         payment.MetadataTypeBooking,
		Date:         date,
		Time:         hhmm,
		PatientName:  "Jo Doe",
		PatientEmail: "jo@x.test",
		Phone:        "0851234567",
		DOB:          "1990-01-01",
		Address:      "1 Main St",
		Service:      "general",
	}
}

func (f *paymentFixture) remaining(t *testing.T, date, hhmm string) int {
	t.Helper()
	got, err := f.slots.GetByDateTime(context.Background(), date, hhmm)
	require.NoError(t, err)
	return got.Remaining
}

func TestCheckoutCompletedCreatesPaidBooking(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 2)

	err := f.svc.HandleCheckoutCompleted(context.Background(),
		"sess_1", "pi_1", "jo@x.test", bookingMeta("2025-06-02", "10:00"))
	require.NoError(t, err)

	b, err := f.bookings.GetBySessionID(context.Background(), "sess_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, "pi_1", b.PaymentRef)
	assert.Equal(t, 1, f.remaining(t, "2025-06-02", "10:00"))
}

func TestDuplicateSessionCreatesExactlyOneBooking(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 5)

	meta := bookingMeta("2025-06-02", "10:00")
	require.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), "sess_1", "pi_1", "", meta))
	// Second delivery must be a successful no-op, capacity untouched.
	require.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), "sess_1", "pi_1", "", meta))

	all, err := f.bookings.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 4, f.remaining(t, "2025-06-02", "10:00"))
}

func TestCheckoutCompletedOnExhaustedSlotRecordsConflict(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)

	_, err := f.slots.Reserve(context.Background(), "2025-06-02", "10:00")
	require.NoError(t, err)

	err = f.svc.HandleCheckoutCompleted(context.Background(),
		"sess_1", "pi_1", "", bookingMeta("2025-06-02", "10:00"))
	require.ErrorIs(t, err, payment.ErrSlotConflict)

	conflicts, err := f.records.ListReconciliationConflicts(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "sess_1", conflicts[0].SessionID)
	assert.Equal(t, "2025-06-02", conflicts[0].Date)
	assert.False(t, conflicts[0].Resolved)

	// No booking was created for the session.
	_, err = f.bookings.GetBySessionID(context.Background(), "sess_1")
	require.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestRefundRestoresSeatAndClearsProvider(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedSlot(t, "2025-06-02", "10:00", 1)

	meta := bookingMeta("2025-06-02", "10:00")
	require.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), "sess_1", "pi_1", "", meta))
	require.Equal(t, 0, f.remaining(t, "2025-06-02", "10:00"))

	require.NoError(t, f.svc.HandleRefund(context.Background(), "pi_1"))

	b, err := f.bookings.GetBySessionID(context.Background(), "sess_1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRefunded, b.Status)
	assert.Equal(t, models.PaymentStatusRefunded, b.PaymentStatus)
	assert.Empty(t, b.ProviderID)
	assert.Equal(t, 1, f.remaining(t, "2025-06-02", "10:00"))

	// Replaying the refund changes nothing.
	require.NoError(t, f.svc.HandleRefund(context.Background(), "pi_1"))
	assert.Equal(t, 1, f.remaining(t, "2025-06-02", "10:00"))
}

func TestRefundForUnknownPaymentIsNoop(t *testing.T) {
	f := newPaymentFixture(t)
	require.NoError(t, f.svc.HandleRefund(context.Background(), "pi_missing"))
}

func TestFormPaymentMarksPaidOnce(t *testing.T) {
	f := newPaymentFixture(t)
	form := &models.Form{
		ID:            "form_1",
		Name:          "Jo Doe",
		Email:         "jo@x.test",
		DOB:           "1990-01-01",
		Address:       "1 Main St",
		PaymentStatus: models.FormPaymentPending,
	}
	require.NoError(t, f.forms.Create(context.Background(), form))

	meta := payment.CheckoutMetadata{Type: payment.MetadataTypeForm, FormID: "form_1"}
	require.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), "sess_f1", "pi_f1", "", meta))

	got, err := f.forms.GetByID(context.Background(), "form_1")
	require.NoError(t, err)
	assert.Equal(t, models.FormPaymentPaid, got.PaymentStatus)
	assert.Equal(t, "sess_f1", got.CheckoutSessionID)
	assert.Equal(t, "pi_f1", got.PaymentRef)

	// Duplicate delivery is ignored via the session guard.
	require.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), "sess_f1", "pi_f1", "", meta))
}

func TestFormRefundIsIndependentOfBookings(t *testing.T) {
	f := newPaymentFixture(t)
	form := &models.Form{
		ID:            "form_1",
		Name:          "Jo Doe",
		Email:         "jo@x.test",
		PaymentStatus: models.FormPaymentPending,
	}
	require.NoError(t, f.forms.Create(context.Background(), form))
	_, err := f.forms.MarkPaid(context.Background(), "form_1", "sess_f1", "pi_f1")
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleRefund(context.Background(), "pi_f1"))

	got, err := f.forms.GetByID(context.Background(), "form_1")
	require.NoError(t, err)
	assert.Equal(t, models.FormPaymentRefunded, got.PaymentStatus)
}

func TestUnknownMetadataTypeIsIgnored(t *testing.T) {
	f := newPaymentFixture(t)
	err := f.svc.HandleCheckoutCompleted(context.Background(),
		"sess_x", "pi_x", "", payment.CheckoutMetadata{Type: "GIFTCARD"})
	require.NoError(t, err)
}
