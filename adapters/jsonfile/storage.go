package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"habitquest/core"
)

// Store persists all profiles to a single JSON file. Suitable for the CLI
// and single-device deployments. A corrupt or missing file surfaces as
// absent profiles rather than an error, so callers fall back to the initial
// profile.
type Store struct {
	path string
	mu   sync.Mutex
	// in-memory cache for speed
	data map[core.ProfileID]core.Profile
}

func New(path string) (*Store, error) {
	s := &Store{path: path, data: map[core.ProfileID]core.Profile{}}
	if err := s.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) && !isCorrupt(err) {
			return nil, err
		}
	}
	return s, nil
}

func isCorrupt(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var raw map[string]core.Profile
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	now := time.Now()
	for k, v := range raw {
		// additive migration: older snapshots may miss newer fields
		v.Normalize(now)
		s.data[core.ProfileID(k)] = v
	}
	return nil
}

func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	raw := make(map[string]core.Profile, len(s.data))
	for k, v := range s.data {
		raw[string(k)] = v
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Load(_ context.Context, id core.ProfileID) (core.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[id]
	if !ok {
		return core.Profile{}, false, nil
	}
	return p.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, id core.ProfileID, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = p.Clone()
	return s.persist()
}
