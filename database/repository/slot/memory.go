package slotRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"telecare/models"
)

// MemorySlotRepo is an in-memory SlotRepository for tests and local runs.
// The mutex gives the same guarantee the Mongo implementation gets from
// conditional updates: check and mutation happen as one step.
type MemorySlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot // keyed by date + "|" + time
}

func NewMemorySlotRepo() *MemorySlotRepo {
	return &MemorySlotRepo{slots: make(map[string]*models.TimeSlot)}
}

func slotKey(date, hhmm string) string { return date + "|" + hhmm }

func (m *MemorySlotRepo) InsertIgnoreExisting(_ context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var inserted []models.TimeSlot
	for _, slot := range slots {
		k := slotKey(slot.Date, slot.Time)
		if _, exists := m.slots[k]; exists {
			continue
		}
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.CreatedAt = now
		slot.UpdatedAt = now
		cp := slot
		m.slots[k] = &cp
		inserted = append(inserted, slot)
	}
	return inserted, nil
}

func (m *MemorySlotRepo) GetByID(_ context.Context, id string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slot := range m.slots {
		if slot.ID == id {
			cp := *slot
			return &cp, nil
		}
	}
	return nil, ErrSlotNotFound
}

func (m *MemorySlotRepo) GetByDateTime(_ context.Context, date, hhmm string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot, ok := m.slots[slotKey(date, hhmm)]; ok {
		cp := *slot
		return &cp, nil
	}
	return nil, ErrSlotNotFound
}

func (m *MemorySlotRepo) ListAll(_ context.Context) ([]models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TimeSlot, 0, len(m.slots))
	for _, slot := range m.slots {
		out = append(out, *slot)
	}
	sortSlots(out)
	return out, nil
}

func (m *MemorySlotRepo) ListBookable(_ context.Context, fromDate string) ([]models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TimeSlot
	for _, slot := range m.slots {
		if slot.Date >= fromDate && slot.Visible && slot.Remaining > 0 {
			out = append(out, *slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *MemorySlotRepo) Reserve(_ context.Context, date, hhmm string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotKey(date, hhmm)]
	if !ok || !slot.Visible || slot.Remaining <= 0 {
		return nil, ErrSlotUnavailable
	}
	slot.Remaining--
	slot.UpdatedAt = time.Now()
	cp := *slot
	return &cp, nil
}

func (m *MemorySlotRepo) Release(_ context.Context, date, hhmm string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotKey(date, hhmm)]
	if !ok || slot.Remaining >= slot.Capacity {
		return nil, nil
	}
	slot.Remaining++
	slot.UpdatedAt = time.Now()
	cp := *slot
	return &cp, nil
}

func (m *MemorySlotRepo) SetCapacity(_ context.Context, slotID string, newCapacity int, reason string) (*models.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slot := range m.slots {
		if slot.ID != slotID {
			continue
		}
		consumed := slot.Capacity - slot.Remaining
		if consumed > newCapacity {
			return nil, ErrInvalidCapacity
		}
		now := time.Now()
		slot.History = append(slot.History, models.CapacityChange{
			OldCapacity: slot.Capacity,
			NewCapacity: newCapacity,
			Reason:      reason,
			ChangedAt:   now,
		})
		slot.Capacity = newCapacity
		slot.Remaining = newCapacity - consumed
		slot.UpdatedAt = now
		cp := *slot
		return &cp, nil
	}
	return nil, ErrSlotNotFound
}

func (m *MemorySlotRepo) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, slot := range m.slots {
		if slot.ID == id {
			delete(m.slots, k)
			return nil
		}
	}
	return ErrSlotNotFound
}

func (m *MemorySlotRepo) DeleteRange(_ context.Context, startDate, endDate string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, slot := range m.slots {
		if slot.Date >= startDate && slot.Date <= endDate {
			delete(m.slots, k)
			n++
		}
	}
	return n, nil
}

func (m *MemorySlotRepo) DeleteBefore(_ context.Context, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, slot := range m.slots {
		if slot.Date < date {
			delete(m.slots, k)
			n++
		}
	}
	return n, nil
}

func (m *MemorySlotRepo) EnsureIndexes() error { return nil }

func sortSlots(slots []models.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
}
