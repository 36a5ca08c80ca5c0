package formRepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"telecare/models"
)

// MemoryFormRepo is an in-memory FormRepository for tests and local runs.
type MemoryFormRepo struct {
	mu    sync.Mutex
	forms map[string]*models.Form
}

func NewMemoryFormRepo() *MemoryFormRepo {
	return &MemoryFormRepo{forms: make(map[string]*models.Form)}
}

func (m *MemoryFormRepo) Create(_ context.Context, f *models.Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.PaymentStatus == "" {
		f.PaymentStatus = models.FormPaymentPending
	}
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	cp := *f
	m.forms[f.ID] = &cp
	return nil
}

func (m *MemoryFormRepo) GetByID(_ context.Context, id string) (*models.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.forms[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, ErrFormNotFound
}

func (m *MemoryFormRepo) GetBySessionID(_ context.Context, sessionID string) (*models.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.forms {
		if f.CheckoutSessionID == sessionID && sessionID != "" {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrFormNotFound
}

func (m *MemoryFormRepo) MarkPaid(_ context.Context, id, sessionID, paymentRef string) (*models.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	f.PaymentStatus = models.FormPaymentPaid
	f.CheckoutSessionID = sessionID
	f.PaymentRef = paymentRef
	f.UpdatedAt = time.Now()
	cp := *f
	return &cp, nil
}

func (m *MemoryFormRepo) MarkRefundedByPaymentRef(_ context.Context, paymentRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.forms {
		if f.PaymentRef == paymentRef && paymentRef != "" {
			f.PaymentStatus = models.FormPaymentRefunded
			f.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *MemoryFormRepo) EnsureIndexes() error { return nil }
