// Package roster holds the in-memory activity rosters and enforces registration invariants.
package roster

import (
	"cmp"
	"slices"
	"sync"

	"example.com/mergington/internal/domain"
)

var _ domain.RosterStore = (*Store)(nil)

// entry is one activity with its roster. members maps email to insertion sequence.
type entry struct {
	activity domain.Activity
	members  map[string]uint64
	next     uint64
}

func newEntry(a SeedActivity) *entry {
	e := &entry{
		activity: domain.Activity{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
		},
		members: make(map[string]uint64, len(a.Participants)),
	}
	for _, email := range a.Participants {
		e.add(email)
	}
	return e
}

func (e *entry) add(email string) {
	e.members[email] = e.next
	e.next++
}

func (e *entry) snapshot() domain.Activity {
	out := e.activity
	out.Participants = make([]string, 0, len(e.members))
	for email := range e.members {
		out.Participants = append(out.Participants, email)
	}
	slices.SortFunc(out.Participants, func(a, b string) int {
		return cmp.Compare(e.members[a], e.members[b])
	})
	return out
}

// Store is the single source of truth for activities and their rosters.
type Store struct {
	mu              sync.RWMutex
	seed            Seed
	activities      map[string]*entry
	enforceCapacity bool
	observe         SizeObserver
}

// SizeObserver receives an activity's roster size after every change. It runs
// under the store's write lock, so calls for one activity arrive in mutation order.
type SizeObserver func(activity string, participants int)

// Option customises a Store.
type Option func(*Store)

// WithCapacityEnforcement makes Signup reject participants once max_participants is reached.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Store) { s.enforceCapacity = enabled }
}

// WithSizeObserver registers fn to receive roster sizes on load, mutation and reset.
func WithSizeObserver(fn SizeObserver) Option {
	return func(s *Store) {
		if fn != nil {
			s.observe = fn
		}
	}
}

// NewStore builds a Store populated from seed.
func NewStore(seed Seed, opts ...Option) (*Store, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	s := &Store{seed: cloneSeed(seed), observe: func(string, int) {}}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s, nil
}

func (s *Store) load() {
	s.activities = make(map[string]*entry, len(s.seed.Activities))
	for _, a := range s.seed.Activities {
		e := newEntry(a)
		s.activities[a.Name] = e
		s.observe(a.Name, len(e.members))
	}
}

// List returns an isolated copy of every activity keyed by name.
func (s *Store) List() map[string]domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Activity, len(s.activities))
	for name, e := range s.activities {
		out[name] = e.snapshot()
	}
	return out
}

// Signup adds email to the named activity's roster.
func (s *Store) Signup(activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.activities[activity]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if email == "" {
		return domain.ErrInvalidParticipant
	}
	if _, registered := e.members[email]; registered {
		return domain.ErrAlreadyRegistered
	}
	if s.enforceCapacity && len(e.members) >= e.activity.MaxParticipants {
		return domain.ErrActivityFull
	}
	e.add(email)
	s.observe(activity, len(e.members))
	return nil
}

// Remove deletes email from the named activity's roster only.
func (s *Store) Remove(activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.activities[activity]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if _, registered := e.members[email]; !registered {
		return domain.ErrParticipantNotFound
	}
	delete(e.members, email)
	s.observe(activity, len(e.members))
	return nil
}

// Reset discards every signup and removal since construction and reloads the seed.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

func cloneSeed(seed Seed) Seed {
	out := Seed{Activities: make([]SeedActivity, len(seed.Activities))}
	for i, a := range seed.Activities {
		a.Participants = slices.Clone(a.Participants)
		out.Activities[i] = a
	}
	return out
}
