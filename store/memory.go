package store

import (
	"context"
	"strconv"
	"sync"

	"activeflow/models"
)

// MemoryStore keeps workouts in an unordered, process-local list. Lookups are
// linear scans. Meant for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	workouts []models.Workout
	nextID   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Create(_ context.Context, w *models.Workout) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := strconv.Itoa(m.nextID)
	m.nextID++

	w.ID = id
	m.workouts = append(m.workouts, w.Clone())
	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, w := range m.workouts {
		if w.ID == id {
			out := w.Clone()
			return &out, nil
		}
	}
	return nil, ErrWorkoutNotFound
}

func (m *MemoryStore) ListByUser(_ context.Context, userID string) ([]models.Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Workout, 0)
	for _, w := range m.workouts {
		if w.UserID == userID {
			out = append(out, w.Clone())
		}
	}
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, w *models.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.workouts {
		if m.workouts[i].ID == id {
			w.ID = id
			m.workouts[i] = w.Clone()
			return nil
		}
	}
	return ErrWorkoutNotFound
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.workouts[:0]
	for _, w := range m.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	m.workouts = kept
	return nil
}
