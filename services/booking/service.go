package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "telecare/database/repository/booking"
	"telecare/models"
	"telecare/services/availability"
	"telecare/services/events"
	"telecare/services/notification"
	slotSvc "telecare/services/slot"
)

// BookingService owns the booking lifecycle. Creation reserves slot capacity
// before anything is persisted, and releases it again if persistence fails,
// so a booking row always corresponds to a consumed seat.
type BookingService interface {
	Create(ctx context.Context, input models.BookingInput) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)

	// Assign reassigns the booking's provider, or unassigns it when
	// providerID is empty. Slot capacity is untouched either way.
	Assign(ctx context.Context, bookingID, providerID string) (*models.Booking, error)
	// UpdateStatus handles direct transitions between Pending, Completed and
	// Canceled. Refunded is rejected; it only arrives via reconciliation.
	UpdateStatus(ctx context.Context, bookingID, status string) (*models.Booking, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Slots        slotSvc.SlotService
	Availability availability.AvailabilityService
	Notifier     notification.NotificationService
	Events       events.Publisher
	Logger       *zap.Logger
}

func (s *DefaultBookingService) Create(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	if _, err := s.Slots.Reserve(ctx, input.Date, input.Time); err != nil {
		return nil, err
	}

	booking, err := s.buildAndPersist(ctx, input, "", "")
	if err != nil {
		// Hand the seat back; the reservation must not outlive the failure.
		if _, rerr := s.Slots.Release(ctx, input.Date, input.Time); rerr != nil {
			s.Logger.Error("failed to release slot after booking failure",
				zap.String("date", input.Date), zap.String("time", input.Time), zap.Error(rerr))
		}
		return nil, err
	}

	if booking.ProviderID != "" {
		s.Notifier.NotifyProvider(ctx, booking.ProviderID, *booking)
	}
	s.Events.Publish(ctx, models.EventBookingCreated, booking)
	return booking, nil
}

// buildAndPersist resolves the provider and inserts the booking. Shared with
// payment reconciliation, which supplies session and payment identifiers.
func (s *DefaultBookingService) buildAndPersist(ctx context.Context, input models.BookingInput, sessionID, paymentRef string) (*models.Booking, error) {
	now := time.Now()
	booking := &models.Booking{
		ID:           uuid.New().String(),
		PatientName:  input.PatientName,
		PatientEmail: input.PatientEmail,
		Phone:        input.Phone,
		DOB:          input.DOB,
		Address:      input.Address,
		Service:      input.Service,
		Date:         input.Date,
		Time:         input.Time,
		Status:       models.BookingStatusPending,
		FormData:     input.FormData,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if sessionID != "" {
		booking.CheckoutSessionID = sessionID
		booking.PaymentRef = paymentRef
		booking.PaymentStatus = models.PaymentStatusPaid
	} else {
		booking.PaymentStatus = models.PaymentStatusPending
	}

	if input.ProviderID != "" {
		// Manual assignment is trusted even when the availability check
		// fails; the mismatch is only logged.
		ok, err := s.Availability.IsProviderAvailable(ctx, input.ProviderID, input.Date, input.Time)
		if err != nil {
			s.Logger.Warn("availability check failed for manual provider",
				zap.String("providerId", input.ProviderID), zap.Error(err))
		} else if !ok {
			s.Logger.Warn("manual provider assigned outside availability",
				zap.String("providerId", input.ProviderID),
				zap.String("date", input.Date), zap.String("time", input.Time))
		}
		booking.ProviderID = input.ProviderID
		booking.AssignedManually = true
	} else {
		provider, err := s.Availability.FindAvailableProvider(ctx, input.Date, input.Time)
		if err != nil {
			return nil, err
		}
		if provider != nil {
			booking.ProviderID = provider.ID
			booking.AssignedAutomatically = true
		}
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time),
		zap.String("providerId", booking.ProviderID),
		zap.Bool("auto", booking.AssignedAutomatically))
	return booking, nil
}

// CreateFromPayment persists a paid booking for a completed checkout
// session. The caller has already reserved the seat and handles
// ErrDuplicateSession.
func (s *DefaultBookingService) CreateFromPayment(ctx context.Context, input models.BookingInput, sessionID, paymentRef string) (*models.Booking, error) {
	booking, err := s.buildAndPersist(ctx, input, sessionID, paymentRef)
	if err != nil {
		return nil, err
	}
	if booking.ProviderID != "" {
		s.Notifier.NotifyProvider(ctx, booking.ProviderID, *booking)
	}
	s.Events.Publish(ctx, models.EventBookingCreated, booking)
	return booking, nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.Repo.ListAll(ctx)
}

func (s *DefaultBookingService) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.Repo.ListByProvider(ctx, providerID)
}

func (s *DefaultBookingService) Assign(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	manual := providerID != ""
	updated, err := s.Repo.UpdateAssignment(ctx, bookingID, providerID, false, manual)
	if err != nil {
		return nil, err
	}
	if providerID != "" {
		s.Notifier.NotifyProvider(ctx, providerID, *updated)
	}
	s.Events.Publish(ctx, models.EventBookingAssigned, updated)
	return updated, nil
}

func (s *DefaultBookingService) UpdateStatus(ctx context.Context, bookingID, status string) (*models.Booking, error) {
	var completedAt *time.Time
	switch status {
	case models.BookingStatusCompleted:
		now := time.Now()
		completedAt = &now
	case models.BookingStatusPending, models.BookingStatusCanceled:
		// completedAt stays nil, clearing any prior completion stamp.
	default:
		return nil, ErrInvalidStatus
	}

	updated, err := s.Repo.UpdateStatus(ctx, bookingID, status, completedAt)
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, models.EventBookingStatusChanged, updated)
	return updated, nil
}
