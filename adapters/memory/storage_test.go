package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitquest/core"
)

func TestLoadAbsent(t *testing.T) {
	store := New()
	_, ok, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	p := core.NewProfile(time.Now())
	p.TotalXP = 240
	p.Level = core.LevelFromXP(240)
	p.Inventory = []string{"Health Potion"}

	require.NoError(t, store.Save(ctx, "alice", p))
	got, ok, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 240, got.TotalXP)
	assert.Equal(t, []string{"Health Potion"}, got.Inventory)
}

func TestLoadReturnsClone(t *testing.T) {
	store := New()
	ctx := context.Background()

	p := core.NewProfile(time.Now())
	require.NoError(t, store.Save(ctx, "alice", p))

	got, _, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	got.Stats[core.StatStrength] = 999

	again, _, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Stats[core.StatStrength], "stored profile must not share state with callers")
}
