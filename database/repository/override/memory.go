package overrideRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"telecare/models"
)

// MemoryOverrideRepo is an in-memory OverrideRepository for tests and local
// runs.
type MemoryOverrideRepo struct {
	mu        sync.Mutex
	overrides map[string]*models.DateOverride // providerId + "|" + date
}

func NewMemoryOverrideRepo() *MemoryOverrideRepo {
	return &MemoryOverrideRepo{overrides: make(map[string]*models.DateOverride)}
}

func overrideKey(providerID, date string) string { return providerID + "|" + date }

func (m *MemoryOverrideRepo) Upsert(_ context.Context, o *models.DateOverride) (*models.DateOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	k := overrideKey(o.ProviderID, o.Date)
	if existing, ok := m.overrides[k]; ok {
		existing.Start = o.Start
		existing.End = o.End
		existing.Reason = o.Reason
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}

	cp := *o
	cp.ID = uuid.New().String()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.overrides[k] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryOverrideRepo) GetByProviderAndDate(_ context.Context, providerID, date string) (*models.DateOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.overrides[overrideKey(providerID, date)]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, ErrOverrideNotFound
}

func (m *MemoryOverrideRepo) List(_ context.Context, providerID, startDate, endDate string) ([]models.DateOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DateOverride
	for _, o := range m.overrides {
		if providerID != "" && o.ProviderID != providerID {
			continue
		}
		if startDate != "" && o.Date < startDate {
			continue
		}
		if endDate != "" && o.Date > endDate {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryOverrideRepo) Delete(_ context.Context, providerID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := overrideKey(providerID, date)
	if _, ok := m.overrides[k]; !ok {
		return ErrOverrideNotFound
	}
	delete(m.overrides, k)
	return nil
}

func (m *MemoryOverrideRepo) EnsureIndexes() error { return nil }
