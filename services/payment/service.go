package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	bookingRepo "telecare/database/repository/booking"
	formRepo "telecare/database/repository/form"
	recordsRepo "telecare/database/repository/records"
	"telecare/models"
	bookingSvc "telecare/services/booking"
	"telecare/services/events"
	slotSvc "telecare/services/slot"
	"telecare/services/tasks"
)

// Metadata type discriminators carried on checkout sessions.
const (
	MetadataTypeBooking = "BOOKING"
	MetadataTypeForm    = "FORM"
)

// ErrSlotConflict reports a completed payment whose slot filled up between
// checkout start and payment completion. The payment is queued for operator
// review rather than silently dropped.
var ErrSlotConflict = errors.New("slot exhausted before payment completed")

// CheckoutMetadata is the metadata embedded in a checkout session at creation
// time. It must be complete enough to build a booking without further
// lookups when the completion webhook arrives.
type CheckoutMetadata struct {
	Type         string
	Date         string
	Time         string
	PatientName  string
	PatientEmail string
	Phone        string
	DOB          string
	Address      string
	Service      string
	ProviderID   string
	FormID       string
}

// MetadataFromMap decodes session metadata as delivered by the webhook.
func MetadataFromMap(m map[string]string) CheckoutMetadata {
	return CheckoutMetadata{
		Type:         m["type"],
		Date:         m["date"],
		Time:         m["time"],
		PatientName:  m["patientName"],
		PatientEmail: m["patientEmail"],
		Phone:        m["phone"],
		DOB:          m["dob"],
		Address:      m["address"],
		Service:      m["service"],
		ProviderID:   m["providerId"],
		FormID:       m["formId"],
	}
}

// ToMap encodes the metadata for checkout-session creation.
func (m CheckoutMetadata) ToMap() map[string]string {
	out := map[string]string{"type": m.Type}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("date", m.Date)
	set("time", m.Time)
	set("patientName", m.PatientName)
	set("patientEmail", m.PatientEmail)
	set("phone", m.Phone)
	set("dob", m.DOB)
	set("address", m.Address)
	set("service", m.Service)
	set("providerId", m.ProviderID)
	set("formId", m.FormID)
	return out
}

// TaskEnqueuer queues operator-review tasks. Satisfied by *asynq.Client; nil
// disables queuing, leaving the conflict record as the only trace.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PaymentService reconciles verified payment-provider events against
// bookings, forms and slot capacity. Every handler here is safe under
// duplicate and out-of-order delivery.
type PaymentService interface {
	// HandleCheckoutCompleted processes a completed checkout session.
	// Duplicate deliveries for the same session id are successful no-ops.
	HandleCheckoutCompleted(ctx context.Context, sessionID, paymentRef, customerEmail string, meta CheckoutMetadata) error
	// HandleRefund compensates a refunded payment: booking and form flip to
	// refunded, the booking's seat is released, the provider unassigned.
	HandleRefund(ctx context.Context, paymentRef string) error
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Bookings *bookingSvc.DefaultBookingService
	Repo     bookingRepo.BookingRepository
	Forms    formRepo.FormRepository
	Slots    slotSvc.SlotService
	Records  recordsRepo.RecordRepository
	Queue    TaskEnqueuer
	Events   events.Publisher
	Logger   *zap.Logger
}

func (s *DefaultPaymentService) HandleCheckoutCompleted(ctx context.Context, sessionID, paymentRef, customerEmail string, meta CheckoutMetadata) error {
	switch meta.Type {
	case MetadataTypeBooking:
		return s.handleBookingPayment(ctx, sessionID, paymentRef, customerEmail, meta)
	case MetadataTypeForm:
		return s.handleFormPayment(ctx, sessionID, paymentRef, meta)
	default:
		s.Logger.Warn("checkout session with unknown metadata type",
			zap.String("sessionId", sessionID), zap.String("type", meta.Type))
		return nil
	}
}

func (s *DefaultPaymentService) handleBookingPayment(ctx context.Context, sessionID, paymentRef, customerEmail string, meta CheckoutMetadata) error {
	// Cheap pre-check; the unique index on the session id is what actually
	// closes the race.
	if existing, err := s.Repo.GetBySessionID(ctx, sessionID); err == nil && existing != nil {
		s.Logger.Info("duplicate booking webhook ignored", zap.String("sessionId", sessionID))
		return nil
	}

	if _, err := s.Slots.Reserve(ctx, meta.Date, meta.Time); err != nil {
		if errors.Is(err, slotSvc.ErrSlotUnavailable) {
			s.recordConflict(ctx, sessionID, meta)
			return ErrSlotConflict
		}
		return err
	}

	email := customerEmail
	if email == "" {
		email = meta.PatientEmail
	}
	input := models.BookingInput{
		PatientName:  meta.PatientName,
		PatientEmail: email,
		Phone:        meta.Phone,
		DOB:          meta.DOB,
		Address:      meta.Address,
		Service:      meta.Service,
		Date:         meta.Date,
		Time:         meta.Time,
		ProviderID:   meta.ProviderID,
	}

	if _, err := s.Bookings.CreateFromPayment(ctx, input, sessionID, paymentRef); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateSession) {
			// A concurrent delivery won the insert; hand back the seat this
			// delivery took and report success.
			if _, rerr := s.Slots.Release(ctx, meta.Date, meta.Time); rerr != nil {
				s.Logger.Error("failed to release seat after duplicate session",
					zap.String("sessionId", sessionID), zap.Error(rerr))
			}
			s.Logger.Info("concurrent duplicate booking webhook ignored",
				zap.String("sessionId", sessionID))
			return nil
		}
		if _, rerr := s.Slots.Release(ctx, meta.Date, meta.Time); rerr != nil {
			s.Logger.Error("failed to release seat after booking failure",
				zap.String("sessionId", sessionID), zap.Error(rerr))
		}
		return err
	}
	return nil
}

func (s *DefaultPaymentService) handleFormPayment(ctx context.Context, sessionID, paymentRef string, meta CheckoutMetadata) error {
	if existing, err := s.Forms.GetBySessionID(ctx, sessionID); err == nil && existing != nil {
		s.Logger.Info("duplicate form webhook ignored", zap.String("sessionId", sessionID))
		return nil
	}
	if meta.FormID == "" {
		s.Logger.Warn("form payment without formId", zap.String("sessionId", sessionID))
		return nil
	}
	if _, err := s.Forms.MarkPaid(ctx, meta.FormID, sessionID, paymentRef); err != nil {
		return err
	}
	s.Logger.Info("form payment confirmed",
		zap.String("formId", meta.FormID), zap.String("sessionId", sessionID))
	return nil
}

func (s *DefaultPaymentService) recordConflict(ctx context.Context, sessionID string, meta CheckoutMetadata) {
	conflict := models.ReconciliationConflict{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Date:      meta.Date,
		Time:      meta.Time,
		Reason:    "slot capacity exhausted before payment completed",
		CreatedAt: time.Now(),
	}
	if err := s.Records.AddReconciliationConflict(ctx, conflict); err != nil {
		s.Logger.Error("failed to record reconciliation conflict",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	if s.Queue != nil {
		task, err := tasks.NewConflictReviewTask(conflict)
		if err == nil {
			_, err = s.Queue.Enqueue(task)
		}
		if err != nil {
			s.Logger.Error("failed to queue conflict review",
				zap.String("sessionId", sessionID), zap.Error(err))
		}
	}
	s.Logger.Error("payment completed for exhausted slot",
		zap.String("sessionId", sessionID),
		zap.String("date", meta.Date), zap.String("time", meta.Time))
}

func (s *DefaultPaymentService) HandleRefund(ctx context.Context, paymentRef string) error {
	booking, err := s.Repo.GetByPaymentRef(ctx, paymentRef)
	if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return err
	}

	if booking != nil {
		refunded, err := s.Repo.MarkRefunded(ctx, booking.ID)
		if err != nil {
			return err
		}
		if refunded == nil {
			s.Logger.Info("refund replay ignored", zap.String("paymentRef", paymentRef))
		} else {
			if _, err := s.Slots.Release(ctx, refunded.Date, refunded.Time); err != nil {
				s.Logger.Error("failed to release seat on refund",
					zap.String("bookingId", refunded.ID), zap.Error(err))
			}
			s.Events.Publish(ctx, models.EventBookingStatusChanged, refunded)
			s.Logger.Info("booking refunded",
				zap.String("bookingId", refunded.ID), zap.String("paymentRef", paymentRef))
		}
	}

	// Forms are reconciled independently; they hold no slot capacity.
	if err := s.Forms.MarkRefundedByPaymentRef(ctx, paymentRef); err != nil {
		return err
	}
	return nil
}
