package engine

import (
	"context"

	"habitquest/core"
)

// ProfileStore abstracts persistence for progression profiles. Load reports
// ok=false when no snapshot exists; callers substitute the initial profile.
type ProfileStore interface {
	Load(ctx context.Context, id core.ProfileID) (core.Profile, bool, error)
	Save(ctx context.Context, id core.ProfileID, p core.Profile) error
}

// RandSource supplies the randomness for reward rolls. *math/rand.Rand
// satisfies it; tests inject scripted sources for deterministic replay.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}
