package engine

import (
	"errors"
	"testing"
	"time"

	"habitquest/core"
)

// scriptedRand replays a fixed sequence of draws. Once exhausted, Float64
// returns 0.99 (no roll reward) and Intn returns 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func noRoll() *scriptedRand { return &scriptedRand{} }

var testNow = time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)

func TestApplyFreshWorkout(t *testing.T) {
	p := core.NewProfile(testNow)
	next, rewards, err := ApplyActivityLog(p, "Workout", 30, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 40 {
		t.Fatalf("totalXP = %d, want 40", next.TotalXP)
	}
	if next.Stats[core.StatStrength] != 40 {
		t.Fatalf("strength = %d, want 40", next.Stats[core.StatStrength])
	}
	if next.Stats[core.StatDiscipline] != 5 {
		t.Fatalf("discipline = %d, want 5", next.Stats[core.StatDiscipline])
	}
	if next.Level != 1 {
		t.Fatalf("level = %d, want 1", next.Level)
	}
	if len(next.Logs) != 1 || next.Logs[0].XPEarned != 40 {
		t.Fatalf("unexpected log state: %+v", next.Logs)
	}
	if next.Streak != 1 {
		t.Fatalf("streak = %d, want 1", next.Streak)
	}
	if next.LastLoginDate != "2024-03-15" {
		t.Fatalf("lastLoginDate = %q", next.LastLoginDate)
	}
	// first log unlocks the first_log achievement, nothing else
	for _, rw := range rewards {
		if rw.Kind != core.RewardAchievement {
			t.Fatalf("unexpected reward %+v", rw)
		}
	}
	if !next.HasAchievement("first_log") {
		t.Fatal("first_log should unlock")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	p := core.NewProfile(testNow)
	_, _, err := ApplyActivityLog(p, "Workout", 30, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalXP != 0 || len(p.Logs) != 0 || p.Streak != 0 {
		t.Fatalf("input profile mutated: %+v", p)
	}
}

func TestApplyUnknownActivity(t *testing.T) {
	p := core.NewProfile(testNow)
	_, _, err := ApplyActivityLog(p, "Skydiving", 30, testNow, noRoll())
	if !errors.Is(err, core.ErrUnknownActivity) {
		t.Fatalf("want ErrUnknownActivity, got %v", err)
	}
}

func TestApplyInvalidDuration(t *testing.T) {
	p := core.NewProfile(testNow)
	for _, d := range []int{0, -10} {
		if _, _, err := ApplyActivityLog(p, "Workout", d, testNow, noRoll()); !errors.Is(err, core.ErrInvalidDuration) {
			t.Fatalf("duration %d: want ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestProportionalXPRounding(t *testing.T) {
	p := core.NewProfile(testNow)
	p, err := core.AddCustomActivity(p, core.ActivityDefinition{ID: "Stretch", Stat: core.StatStrength, BaseXP: 5, BaseDuration: 2})
	if err != nil {
		t.Fatal(err)
	}
	// 5 * 1 / 2 = 2.5, rounded half away from zero to 3
	next, _, err := ApplyActivityLog(p, "Stretch", 1, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 3 {
		t.Fatalf("totalXP = %d, want 3 (half rounds away from zero)", next.TotalXP)
	}

	// 40 * 45 / 30 = 60 exactly
	next, _, err = ApplyActivityLog(core.NewProfile(testNow), "Workout", 45, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 60 {
		t.Fatalf("totalXP = %d, want 60", next.TotalXP)
	}
}

func TestLevelUpAtThreshold(t *testing.T) {
	p := core.NewProfile(testNow)
	p.TotalXP = 99
	p.CurrentXP = 99
	p.LastLoginDate = testNow.Format(core.DateFormat)
	p.Streak = 1
	// seed a prior log on another day so no achievement fires alongside
	p.Logs = append(p.Logs, core.ActivityLog{ID: "0", ActivityID: "Reading", Date: "2024-03-10", XPEarned: 99, CreatedAt: testNow.AddDate(0, 0, -5)})
	p, err := core.AddCustomActivity(p, core.ActivityDefinition{ID: "Tiny", Stat: core.StatMind, BaseXP: 1, BaseDuration: 30})
	if err != nil {
		t.Fatal(err)
	}

	next, rewards, err := ApplyActivityLog(p, "Tiny", 30, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 100 {
		t.Fatalf("totalXP = %d, want 100", next.TotalXP)
	}
	if want := core.LevelFromXP(100); next.Level != want {
		t.Fatalf("level = %d, want %d", next.Level, want)
	}
	levelUps := 0
	for _, rw := range rewards {
		if rw.Kind == core.RewardLevelUp {
			levelUps++
			if rw.Level != next.Level {
				t.Fatalf("level-up reward carries %d, want %d", rw.Level, next.Level)
			}
		}
	}
	if levelUps != 1 {
		t.Fatalf("expected exactly one level-up reward, got %d", levelUps)
	}
}

func TestCriticalDoublesXP(t *testing.T) {
	p := core.NewProfile(testNow)
	next, rewards, err := ApplyActivityLog(p, "Workout", 30, testNow, &scriptedRand{floats: []float64{0.05}})
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 80 {
		t.Fatalf("totalXP = %d, want 80", next.TotalXP)
	}
	if !next.Logs[0].Critical {
		t.Fatal("log entry should carry the critical flag")
	}
	if rewards[0].Kind != core.RewardCritical || rewards[0].XP != 80 {
		t.Fatalf("first reward should be the critical, got %+v", rewards[0])
	}
	// stats accrue the pre-roll base amount
	if next.Stats[core.StatStrength] != 40 {
		t.Fatalf("strength = %d, want pre-roll 40", next.Stats[core.StatStrength])
	}
}

func TestBonusRollAddsRange(t *testing.T) {
	p := core.NewProfile(testNow)
	// bonus band, Intn(20) scripted to 5 -> +15
	next, rewards, err := ApplyActivityLog(p, "Workout", 30, testNow, &scriptedRand{floats: []float64{0.15}, ints: []int{5}})
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 55 {
		t.Fatalf("totalXP = %d, want 55", next.TotalXP)
	}
	if rewards[0].Kind != core.RewardBonus || rewards[0].XP != 15 {
		t.Fatalf("unexpected bonus reward: %+v", rewards[0])
	}
}

func TestLootRollFillsInventoryOnce(t *testing.T) {
	p := core.NewProfile(testNow)
	next, rewards, err := ApplyActivityLog(p, "Workout", 30, testNow, &scriptedRand{floats: []float64{0.27}, ints: []int{2}})
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 40 {
		t.Fatalf("loot must not change XP, got %d", next.TotalXP)
	}
	if rewards[0].Kind != core.RewardLoot || rewards[0].Item != LootTable[2] {
		t.Fatalf("unexpected loot reward: %+v", rewards[0])
	}
	if len(next.Inventory) != 1 || next.Inventory[0] != LootTable[2] {
		t.Fatalf("inventory should hold exactly the rolled item, got %v", next.Inventory)
	}
}

func TestLogIDsDistinctUnderFrozenClock(t *testing.T) {
	p := core.NewProfile(testNow)
	p, _, err := ApplyActivityLog(p, "Workout", 30, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	p, _, err = ApplyActivityLog(p, "Reading", 30, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if p.Logs[0].ID == p.Logs[1].ID {
		t.Fatalf("log ids must stay distinct for identical timestamps, both %q", p.Logs[0].ID)
	}
}

func TestTotalXPAndLogsMonotonic(t *testing.T) {
	p := core.NewProfile(testNow)
	rng := &scriptedRand{floats: []float64{0.05, 0.15, 0.27, 0.5, 0.99, 0.01}}
	prevXP, prevLogs := 0, 0
	now := testNow
	for i := 0; i < 6; i++ {
		next, _, err := ApplyActivityLog(p, "Reading", 30, now, rng)
		if err != nil {
			t.Fatal(err)
		}
		if next.TotalXP < prevXP || len(next.Logs) < prevLogs {
			t.Fatalf("monotonicity broken at step %d", i)
		}
		prevXP, prevLogs = next.TotalXP, len(next.Logs)
		p = next
		now = now.Add(time.Hour)
	}
}
