package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"telecare/models"
)

// MemoryBookingRepo is an in-memory BookingRepository for tests and local
// runs. The session index map mirrors the Mongo partial unique index.
type MemoryBookingRepo struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	bySession map[string]string // checkoutSessionId -> booking id
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{
		bookings:  make(map[string]*models.Booking),
		bySession: make(map[string]string),
	}
}

func (m *MemoryBookingRepo) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.CheckoutSessionID != "" {
		if _, exists := m.bySession[b.CheckoutSessionID]; exists {
			return ErrDuplicateSession
		}
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	cp := *b
	m.bookings[b.ID] = &cp
	if b.CheckoutSessionID != "" {
		m.bySession[b.CheckoutSessionID] = b.ID
	}
	return nil
}

func (m *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, ErrBookingNotFound
}

func (m *MemoryBookingRepo) GetBySessionID(_ context.Context, sessionID string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.bySession[sessionID]; ok {
		cp := *m.bookings[id]
		return &cp, nil
	}
	return nil, ErrBookingNotFound
}

func (m *MemoryBookingRepo) GetByPaymentRef(_ context.Context, paymentRef string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.PaymentRef == paymentRef && paymentRef != "" {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (m *MemoryBookingRepo) ListAll(_ context.Context) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryBookingRepo) ListByProvider(_ context.Context, providerID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryBookingRepo) HasActiveBookingAt(_ context.Context, providerID, date, hhmm string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ProviderID == providerID && b.Date == date && b.Time == hhmm &&
			b.Status != models.BookingStatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryBookingRepo) CountActiveOnDate(_ context.Context, providerID, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if b.ProviderID == providerID && b.Date == date && b.Status != models.BookingStatusCanceled {
			n++
		}
	}
	return n, nil
}

func (m *MemoryBookingRepo) UpdateStatus(_ context.Context, id, status string, completedAt *time.Time) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	b.Status = status
	b.CompletedAt = completedAt
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (m *MemoryBookingRepo) UpdateAssignment(_ context.Context, id, providerID string, auto, manual bool) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	b.ProviderID = providerID
	b.AssignedAutomatically = auto
	b.AssignedManually = manual
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (m *MemoryBookingRepo) MarkRefunded(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status == models.BookingStatusRefunded {
		return nil, nil
	}
	b.Status = models.BookingStatusRefunded
	b.PaymentStatus = models.PaymentStatusRefunded
	b.ProviderID = ""
	b.AssignedAutomatically = false
	b.AssignedManually = false
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (m *MemoryBookingRepo) EnsureIndexes() error { return nil }
