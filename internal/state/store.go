package state

import (
	"sync"
	"time"

	"sena-tracker/internal/models"
	"sena-tracker/internal/sheet"
)

// Store publishes snapshots. Writers are serialized; readers get the
// current snapshot and must treat it as read-only.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
}

func NewStore(initial Snapshot) *Store {
	return &Store{current: initial}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to the current snapshot. On error nothing changes.
func (s *Store) Update(fn Transform) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current)
	if err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

// Replace swaps in a freshly loaded ficha graph. Announcements are local
// and survive reloads.
func (s *Store) Replace(fichas []models.Ficha, evaluations []sheet.EvaluationRow, source Source) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Snapshot{
		Fichas:        fichas,
		Evaluations:   evaluations,
		Announcements: s.current.Announcements,
		Source:        source,
		LoadedAt:      time.Now(),
	}
	return s.current
}
