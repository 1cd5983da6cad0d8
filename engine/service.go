package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"habitquest/core"
)

// Service wires a profile store, event bus, and the progression transition
// into a cohesive API. Transitions against a profile are serialized here;
// the transition itself needs no locking.
type Service struct {
	store ProfileStore
	bus   *EventBus
	rng   RandSource
	clock func() time.Time
	mu    sync.Mutex
}

func NewService(store ProfileStore, bus *EventBus, rng RandSource) *Service {
	if store == nil || bus == nil {
		panic("NewService requires non-nil store and bus")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{store: store, bus: bus, rng: rng, clock: time.Now}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(clock func() time.Time) { s.clock = clock }

// Subscribe convenience method.
func (s *Service) Subscribe(typ EventType, handler func(context.Context, Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

func (s *Service) Publish(ctx context.Context, ev Event) {
	s.bus.Publish(ctx, ev)
}

// loadOrInit fetches the stored snapshot, substituting the initial profile
// when absent, then runs additive migration and the session-start streak
// reconciliation. Reconciliation happens strictly before any log transition.
func (s *Service) loadOrInit(ctx context.Context, id core.ProfileID, now time.Time) (core.Profile, error) {
	p, ok, err := s.store.Load(ctx, id)
	if err != nil || !ok {
		if err != nil {
			return core.Profile{}, err
		}
		return core.NewProfile(now), nil
	}
	p.Normalize(now)
	return ReconcileStreak(p, now), nil
}

// LogActivity applies one activity log to the stored profile, persists the
// result, and publishes the log plus each reward on the bus in order.
func (s *Service) LogActivity(ctx context.Context, id core.ProfileID, activityID string, duration int) (core.Profile, []core.Reward, error) {
	normalized, err := core.NormalizeProfileID(id)
	if err != nil {
		return core.Profile{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	p, err := s.loadOrInit(ctx, normalized, now)
	if err != nil {
		return core.Profile{}, nil, err
	}
	next, rewards, err := ApplyActivityLog(p, activityID, duration, now, s.rng)
	if err != nil {
		return core.Profile{}, nil, err
	}
	if err := s.store.Save(ctx, normalized, next); err != nil {
		return core.Profile{}, nil, err
	}

	s.bus.Publish(ctx, NewActivityLogged(normalized, next.Logs[0], next.TotalXP, next.Level))
	for _, rw := range rewards {
		s.bus.Publish(ctx, NewRewardEvent(normalized, rw))
	}
	s.bus.Publish(ctx, NewProfileSaved(normalized, next.TotalXP, next.Level))
	return next, rewards, nil
}

// AddCustomActivity appends a user-defined activity to the profile catalog.
func (s *Service) AddCustomActivity(ctx context.Context, id core.ProfileID, def core.ActivityDefinition) (core.Profile, error) {
	normalized, err := core.NormalizeProfileID(id)
	if err != nil {
		return core.Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	p, err := s.loadOrInit(ctx, normalized, now)
	if err != nil {
		return core.Profile{}, err
	}
	next, err := core.AddCustomActivity(p, def)
	if err != nil {
		return core.Profile{}, err
	}
	if err := s.store.Save(ctx, normalized, next); err != nil {
		return core.Profile{}, err
	}
	return next, nil
}

// GetProfile returns the reconciled profile snapshot, persisting a streak
// reset when the reconciliation changed it.
func (s *Service) GetProfile(ctx context.Context, id core.ProfileID) (core.Profile, error) {
	normalized, err := core.NormalizeProfileID(id)
	if err != nil {
		return core.Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	p, ok, err := s.store.Load(ctx, normalized)
	if err != nil {
		return core.Profile{}, err
	}
	if !ok {
		return core.NewProfile(now), nil
	}
	p.Normalize(now)
	reconciled := ReconcileStreak(p, now)
	if reconciled.Streak != p.Streak {
		if err := s.store.Save(ctx, normalized, reconciled); err != nil {
			return core.Profile{}, err
		}
	}
	return reconciled, nil
}

// Catalog returns the effective activity list for a profile.
func (s *Service) Catalog(ctx context.Context, id core.ProfileID) ([]core.ActivityDefinition, error) {
	p, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return core.Catalog(p), nil
}

// Achievements returns the registry annotated with the profile's state.
func (s *Service) Achievements(ctx context.Context, id core.ProfileID) ([]AchievementStatus, error) {
	p, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return AchievementsFor(p), nil
}

func (s *Service) Close() { s.bus.Close() }
