// Package leaderboard ranks local profiles by total XP. It is fed from the
// event bus, so side-by-side profiles on one instance can be compared
// without any networked state.
package leaderboard

import (
	"context"

	"habitquest/core"
	"habitquest/engine"
)

// Entry represents a ranked profile.
type Entry struct {
	Profile core.ProfileID
	TotalXP int64
}

// Board abstracts leaderboard operations.
type Board interface {
	Update(profile core.ProfileID, totalXP int64)
	Remove(profile core.ProfileID)
	TopN(n int) []Entry
	Get(profile core.ProfileID) (Entry, bool)
}

// FromBus keeps a board current by following profile-saved events. Returns
// the unsubscribe func.
func FromBus(bus *engine.EventBus, board Board) func() {
	return bus.Subscribe(engine.EventProfileSaved, func(_ context.Context, ev engine.Event) {
		board.Update(ev.ProfileID, int64(ev.TotalXP))
	})
}
