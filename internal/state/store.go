// Package state owns the shared RateState snapshot. Every mutation
// goes through the store and is followed by a synchronous change
// notification carrying the full post-mutation snapshot.
package state

import (
	"sync"

	"ratesync/internal/domain"
)

type Subscriber func(domain.RateState)

type Store struct {
	mu    sync.RWMutex
	state domain.RateState

	// orderMu is held across mutation plus fan-out, so subscribers
	// receive snapshots in mutation order and the last notification
	// always matches the final state. Subscribers get the snapshot by
	// value and must not mutate the store from inside a notification.
	orderMu sync.Mutex

	subMu sync.RWMutex
	subs  []Subscriber
}

func NewStore(initial domain.RateState) *Store {
	return &Store{state: initial}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.RateState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Apply mutates the state through fn and notifies subscribers with the
// result. Used for partial updates such as optimistic pending writes.
func (s *Store) Apply(fn func(*domain.RateState)) domain.RateState {
	s.orderMu.Lock()
	defer s.orderMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	next := s.state
	s.mu.Unlock()

	s.notify(next)
	return next
}

// Replace swaps the whole snapshot in one step and notifies
// subscribers. This is the commit primitive: confirmed fields and
// pending clears land together or not at all.
func (s *Store) Replace(next domain.RateState) {
	s.orderMu.Lock()
	defer s.orderMu.Unlock()

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.notify(next)
}

// Subscribe registers fn to receive every post-mutation snapshot.
// Notifications run synchronously in subscription order.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(snap domain.RateState) {
	s.subMu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}
