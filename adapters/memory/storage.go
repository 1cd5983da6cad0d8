package memory

import (
	"context"
	"sync"

	"habitquest/core"
)

// Store is a concurrent in-memory ProfileStore implementation.
type Store struct {
	profiles sync.Map // map[core.ProfileID]*record
}

type record struct {
	mu      sync.Mutex
	present bool
	profile core.Profile
}

func New() *Store { return &Store{} }

func (s *Store) getOrCreate(id core.ProfileID) *record {
	if v, ok := s.profiles.Load(id); ok {
		return v.(*record)
	}
	actual, _ := s.profiles.LoadOrStore(id, &record{})
	return actual.(*record)
}

func (s *Store) Load(_ context.Context, id core.ProfileID) (core.Profile, bool, error) {
	rec := s.getOrCreate(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if !rec.present {
		return core.Profile{}, false, nil
	}
	return rec.profile.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, id core.ProfileID, p core.Profile) error {
	rec := s.getOrCreate(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.profile = p.Clone()
	rec.present = true
	return nil
}
