// Package habit is the assembly facade: it builds a configured progression
// Service from functional options, defaulting to in-memory storage and
// synchronous dispatch so reward ordering is preserved.
package habit

import (
	"context"
	"time"

	mem "habitquest/adapters/memory"
	"habitquest/engine"
	"habitquest/realtime"
)

// Option configures the service builder.
type Option func(*config)

type config struct {
	store engine.ProfileStore
	mode  engine.DispatchMode
	rng   engine.RandSource
	clock func() time.Time
	hub   *realtime.Hub
}

// WithStore sets the persistence adapter.
func WithStore(s engine.ProfileStore) Option { return func(c *config) { c.store = s } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRand sets the reward-roll random source, for deterministic replay.
func WithRand(r engine.RandSource) Option { return func(c *config) { c.rng = r } }

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option { return func(c *config) { c.clock = clock } }

// WithRealtime wires a realtime hub to receive all engine events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// New builds a configured Service. If not provided, defaults are used:
//   - store: in-memory
//   - dispatch: sync (reward events are presented in order)
//   - rand: time-seeded
func New(opts ...Option) *engine.Service {
	cfg := &config{mode: engine.DispatchSync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.store == nil {
		cfg.store = mem.New()
	}
	bus := engine.NewEventBus(cfg.mode)
	svc := engine.NewService(cfg.store, bus, cfg.rng)
	if cfg.clock != nil {
		svc.SetClock(cfg.clock)
	}
	if cfg.hub != nil {
		// Bridge all engine events to realtime
		bus.Subscribe(engine.EventActivityLogged, func(ctx context.Context, e engine.Event) { cfg.hub.Broadcast(ctx, e) })
		bus.Subscribe(engine.EventReward, func(ctx context.Context, e engine.Event) { cfg.hub.Broadcast(ctx, e) })
		bus.Subscribe(engine.EventProfileSaved, func(ctx context.Context, e engine.Event) { cfg.hub.Broadcast(ctx, e) })
	}
	return svc
}
