package providerRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"telecare/models"
)

// MemoryProviderRepo is an in-memory ProviderRepository for tests and local
// runs.
type MemoryProviderRepo struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
	seq       int // insertion counter, keeps creation order stable
	order     map[string]int
}

func NewMemoryProviderRepo() *MemoryProviderRepo {
	return &MemoryProviderRepo{
		providers: make(map[string]*models.Provider),
		order:     make(map[string]int),
	}
}

func (m *MemoryProviderRepo) Create(_ context.Context, p *models.Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = models.ProviderStatusActive
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	cp := *p
	m.providers[p.ID] = &cp
	m.order[p.ID] = m.seq
	m.seq++
	return nil
}

func (m *MemoryProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.providers[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrProviderNotFound
}

func (m *MemoryProviderRepo) ListAll(_ context.Context) ([]models.Provider, error) {
	return m.list(func(*models.Provider) bool { return true }), nil
}

func (m *MemoryProviderRepo) ListActive(_ context.Context) ([]models.Provider, error) {
	return m.list(func(p *models.Provider) bool { return p.Status == models.ProviderStatusActive }), nil
}

func (m *MemoryProviderRepo) list(keep func(*models.Provider) bool) []models.Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Provider
	for _, p := range m.providers {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out
}

func (m *MemoryProviderRepo) CountActive(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.providers {
		if p.Status == models.ProviderStatusActive {
			n++
		}
	}
	return n, nil
}

func (m *MemoryProviderRepo) SetWeeklyAvailability(_ context.Context, id string, windows []models.WeeklyAvailability) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	p.WeeklyAvailability = windows
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *MemoryProviderRepo) UpsertMonthlyAvailability(_ context.Context, id string, month models.MonthlyAvailability) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	kept := p.MonthlyAvailability[:0]
	for _, existing := range p.MonthlyAvailability {
		if existing.Year != month.Year || existing.Month != month.Month {
			kept = append(kept, existing)
		}
	}
	p.MonthlyAvailability = append(kept, month)
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *MemoryProviderRepo) SetStatus(_ context.Context, id string, change models.StatusChange) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	p.Status = change.Status
	p.StatusHistory = append(p.StatusHistory, change)
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *MemoryProviderRepo) EnsureIndexes() error { return nil }
