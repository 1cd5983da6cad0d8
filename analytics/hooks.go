// Package analytics aggregates progression events into lightweight KPIs.
// Hooks are fed from the engine event bus and keep everything in memory;
// exporters push the rolled-up numbers elsewhere.
package analytics

import (
	"context"
	"sync"
	"time"

	"habitquest/core"
	"habitquest/engine"
)

// Hook receives domain events for KPI aggregation.
type Hook interface {
	OnEvent(e engine.Event)
}

// ActiveProfiles tracks which profiles logged something on each day.
type ActiveProfiles struct {
	mu   sync.Mutex
	days map[string]map[core.ProfileID]struct{}
}

func NewActiveProfiles() *ActiveProfiles {
	return &ActiveProfiles{days: map[string]map[core.ProfileID]struct{}{}}
}

func (a *ActiveProfiles) OnEvent(e engine.Event) {
	if e.Type != engine.EventActivityLogged {
		return
	}
	day := e.Time.UTC().Format(core.DateFormat)
	a.mu.Lock()
	defer a.mu.Unlock()
	m := a.days[day]
	if m == nil {
		m = map[core.ProfileID]struct{}{}
		a.days[day] = m
	}
	m[e.ProfileID] = struct{}{}
}

func (a *ActiveProfiles) Count(day string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.days[day])
}

// XPTracker accumulates XP earned per day and per activity.
type XPTracker struct {
	mu         sync.RWMutex
	byDay      map[string]int
	byActivity map[string]int
	minutes    map[string]int
}

func NewXPTracker() *XPTracker {
	return &XPTracker{
		byDay:      map[string]int{},
		byActivity: map[string]int{},
		minutes:    map[string]int{},
	}
}

func (x *XPTracker) OnEvent(e engine.Event) {
	if e.Type != engine.EventActivityLogged || e.Log == nil {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.byDay[e.Log.Date] += e.Log.XPEarned
	x.byActivity[e.Log.ActivityID] += e.Log.XPEarned
	x.minutes[e.Log.ActivityID] += e.Log.Duration
}

func (x *XPTracker) XPByDay(day string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byDay[day]
}

func (x *XPTracker) XPByActivity(activityID string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byActivity[activityID]
}

func (x *XPTracker) MinutesByActivity(activityID string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.minutes[activityID]
}

// RewardCounter counts rewards by kind, tracking how often the roll bands
// and bonus paths actually fire.
type RewardCounter struct {
	mu     sync.RWMutex
	byKind map[core.RewardKind]int64
}

func NewRewardCounter() *RewardCounter {
	return &RewardCounter{byKind: map[core.RewardKind]int64{}}
}

func (r *RewardCounter) OnEvent(e engine.Event) {
	if e.Type != engine.EventReward || e.Reward == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[e.Reward.Kind]++
}

func (r *RewardCounter) Count(kind core.RewardKind) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKind[kind]
}

// Snapshot returns a copy of all kind counters.
func (r *RewardCounter) Snapshot() map[core.RewardKind]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[core.RewardKind]int64, len(r.byKind))
	for k, v := range r.byKind {
		out[k] = v
	}
	return out
}

// FromBus wires hooks to the bus for every event type. Returns the combined
// unsubscribe func.
func FromBus(bus *engine.EventBus, hooks ...Hook) func() {
	types := []engine.EventType{engine.EventActivityLogged, engine.EventReward, engine.EventProfileSaved}
	var unsubs []func()
	for _, typ := range types {
		unsubs = append(unsubs, bus.Subscribe(typ, func(_ context.Context, ev engine.Event) {
			for _, h := range hooks {
				h.OnEvent(ev)
			}
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Report is a point-in-time rollup suitable for export.
type Report struct {
	Day           string                    `json:"day"`
	ActiveCount   int                       `json:"active_count"`
	XPEarned      int                       `json:"xp_earned"`
	RewardsByKind map[core.RewardKind]int64 `json:"rewards_by_kind"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// BuildReport assembles a daily report from the standard hook trio.
func BuildReport(day string, active *ActiveProfiles, xp *XPTracker, rewards *RewardCounter) *Report {
	return &Report{
		Day:           day,
		ActiveCount:   active.Count(day),
		XPEarned:      xp.XPByDay(day),
		RewardsByKind: rewards.Snapshot(),
		CreatedAt:     time.Now().UTC(),
	}
}
