package recordsRepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"telecare/models"
)

// MemoryRecordRepo is an in-memory RecordRepository for tests and local runs.
type MemoryRecordRepo struct {
	mu        sync.Mutex
	capacity  []models.CapacityOverrideHistory
	special   []models.SpecialSlotHistory
	conflicts []models.ReconciliationConflict
}

func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{}
}

func (m *MemoryRecordRepo) AddCapacityOverride(_ context.Context, rec models.CapacityOverrideHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.capacity = append(m.capacity, rec)
	return nil
}

func (m *MemoryRecordRepo) ListCapacityOverrides(_ context.Context) ([]models.CapacityOverrideHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.CapacityOverrideHistory, len(m.capacity))
	copy(out, m.capacity)
	return out, nil
}

func (m *MemoryRecordRepo) AddSpecialSlotHistory(_ context.Context, rec models.SpecialSlotHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.special = append(m.special, rec)
	return nil
}

func (m *MemoryRecordRepo) ListSpecialSlotHistory(_ context.Context) ([]models.SpecialSlotHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SpecialSlotHistory, len(m.special))
	copy(out, m.special)
	return out, nil
}

func (m *MemoryRecordRepo) AddReconciliationConflict(_ context.Context, rec models.ReconciliationConflict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.conflicts = append(m.conflicts, rec)
	return nil
}

func (m *MemoryRecordRepo) ListReconciliationConflicts(_ context.Context, unresolvedOnly bool) ([]models.ReconciliationConflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReconciliationConflict
	for _, c := range m.conflicts {
		if unresolvedOnly && c.Resolved {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
