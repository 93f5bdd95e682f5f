package ledger

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Store persists ledger records. Implementations must make Append, Deactivate
// and Replace atomic with respect to the one-active-per-(user, magazine) rule.
type Store interface {
	// Get returns the record with id, active or not.
	// Returns ErrSubscriptionNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (Subscription, error)

	// FindActive returns the active record for the pair.
	// Returns ErrSubscriptionNotFound if there is none.
	FindActive(ctx context.Context, userID, magazineID uuid.UUID) (Subscription, error)

	// ListActive returns the user's active records in ledger order.
	ListActive(ctx context.Context, userID uuid.UUID) ([]Subscription, error)

	// ListHistory returns every record for the pair in ledger order.
	ListHistory(ctx context.Context, userID, magazineID uuid.UUID) ([]Subscription, error)

	// Append adds a new record. Fails with ErrActiveSubscriptionExists if sub
	// is active and the pair already has an active record.
	Append(ctx context.Context, sub Subscription) error

	// Deactivate flips an active record to inactive and returns it.
	// Returns ErrSubscriptionInactive if it was already inactive.
	Deactivate(ctx context.Context, id uuid.UUID) (Subscription, error)

	// Replace deactivates id and appends successor in one step.
	// The successor must share the predecessor's user and magazine.
	Replace(ctx context.Context, id uuid.UUID, successor Subscription) error
}

type pairKey struct {
	userID     uuid.UUID
	magazineID uuid.UUID
}

func keyOf(s Subscription) pairKey {
	return pairKey{userID: s.UserID, magazineID: s.MagazineID}
}

type memoryStore struct {
	mu      sync.RWMutex
	records []Subscription
	byID    map[uuid.UUID]int
	active  map[pairKey]int
}

// NewMemoryStore returns a process-local Store. All records are lost when
// the process exits.
func NewMemoryStore() Store {
	return &memoryStore{
		byID:   make(map[uuid.UUID]int),
		active: make(map[pairKey]int),
	}
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Subscription{}, ErrSubscriptionNotFound
	}
	return s.records[i], nil
}

func (s *memoryStore) FindActive(_ context.Context, userID, magazineID uuid.UUID) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.active[pairKey{userID: userID, magazineID: magazineID}]
	if !ok {
		return Subscription{}, ErrSubscriptionNotFound
	}
	return s.records[i], nil
}

func (s *memoryStore) ListActive(_ context.Context, userID uuid.UUID) ([]Subscription, error) {
	return s.filter(func(r Subscription) bool { return r.UserID == userID && r.IsActive }), nil
}

func (s *memoryStore) ListHistory(_ context.Context, userID, magazineID uuid.UUID) ([]Subscription, error) {
	return s.filter(func(r Subscription) bool { return r.UserID == userID && r.MagazineID == magazineID }), nil
}

func (s *memoryStore) filter(match func(Subscription) bool) []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Subscription, 0)
	for _, r := range s.records {
		if match(r) {
			out = append(out, r)
		}
	}
	return slices.Clip(out)
}

func (s *memoryStore) Append(_ context.Context, sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(sub)
}

func (s *memoryStore) appendLocked(sub Subscription) error {
	if _, dup := s.byID[sub.ID]; dup {
		return ErrDuplicateSubscriptionID
	}
	key := keyOf(sub)
	if sub.IsActive {
		if _, taken := s.active[key]; taken {
			return ErrActiveSubscriptionExists
		}
		s.active[key] = len(s.records)
	}
	s.byID[sub.ID] = len(s.records)
	s.records = append(s.records, sub)
	return nil
}

func (s *memoryStore) Deactivate(_ context.Context, id uuid.UUID) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.activeIndexLocked(id)
	if err != nil {
		return Subscription{}, err
	}
	s.deactivateLocked(i)
	return s.records[i], nil
}

func (s *memoryStore) Replace(_ context.Context, id uuid.UUID, successor Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.activeIndexLocked(id)
	if err != nil {
		return err
	}
	if keyOf(s.records[i]) != keyOf(successor) {
		return ErrConflict
	}
	if _, dup := s.byID[successor.ID]; dup {
		return ErrDuplicateSubscriptionID
	}

	s.deactivateLocked(i)
	return s.appendLocked(successor)
}

func (s *memoryStore) activeIndexLocked(id uuid.UUID) (int, error) {
	i, ok := s.byID[id]
	if !ok {
		return 0, ErrSubscriptionNotFound
	}
	if !s.records[i].IsActive {
		return 0, ErrSubscriptionInactive
	}
	return i, nil
}

func (s *memoryStore) deactivateLocked(i int) {
	s.records[i].IsActive = false
	delete(s.active, keyOf(s.records[i]))
}
