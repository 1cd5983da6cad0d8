package core

import (
	"errors"
	"testing"
	"time"
)

func TestResolveActivityBuiltin(t *testing.T) {
	p := NewProfile(time.Now())
	def, err := ResolveActivity(p, "Workout")
	if err != nil {
		t.Fatal(err)
	}
	if def.Stat != StatStrength || def.BaseXP != 40 || def.BaseDuration != 30 {
		t.Fatalf("unexpected Workout definition: %+v", def)
	}
}

func TestResolveActivityUnknown(t *testing.T) {
	p := NewProfile(time.Now())
	_, err := ResolveActivity(p, "Basket Weaving")
	if !errors.Is(err, ErrUnknownActivity) {
		t.Fatalf("want ErrUnknownActivity, got %v", err)
	}
}

func TestAddCustomActivity(t *testing.T) {
	p := NewProfile(time.Now())
	next, err := AddCustomActivity(p, ActivityDefinition{ID: "Swimming", Stat: StatStrength, BaseXP: 35, BaseDuration: 30})
	if err != nil {
		t.Fatal(err)
	}
	if len(next.CustomActivities) != 1 {
		t.Fatalf("expected 1 custom activity, got %d", len(next.CustomActivities))
	}
	if len(p.CustomActivities) != 0 {
		t.Fatal("original profile must not be mutated")
	}
	if _, err := ResolveActivity(next, "Swimming"); err != nil {
		t.Fatalf("custom activity should resolve: %v", err)
	}
}

func TestAddCustomActivityDuplicateBuiltin(t *testing.T) {
	p := NewProfile(time.Now())
	_, err := AddCustomActivity(p, ActivityDefinition{ID: "Workout", Stat: StatStrength, BaseXP: 10, BaseDuration: 10})
	if !errors.Is(err, ErrDuplicateActivity) {
		t.Fatalf("want ErrDuplicateActivity, got %v", err)
	}
	if len(p.CustomActivities) != 0 {
		t.Fatal("customActivities must be unchanged after rejection")
	}
}

func TestAddCustomActivityDuplicateCustom(t *testing.T) {
	p := NewProfile(time.Now())
	p, err := AddCustomActivity(p, ActivityDefinition{ID: "Chess", Stat: StatMind, BaseXP: 20, BaseDuration: 20})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddCustomActivity(p, ActivityDefinition{ID: "Chess", Stat: StatMind, BaseXP: 20, BaseDuration: 20}); !errors.Is(err, ErrDuplicateActivity) {
		t.Fatalf("want ErrDuplicateActivity, got %v", err)
	}
}

func TestAddCustomActivityUnknownStat(t *testing.T) {
	p := NewProfile(time.Now())
	_, err := AddCustomActivity(p, ActivityDefinition{ID: "Yoga", Stat: "charisma", BaseXP: 10, BaseDuration: 10})
	if err == nil {
		t.Fatal("stat outside the known set must be rejected")
	}
	if len(p.CustomActivities) != 0 {
		t.Fatal("customActivities must be unchanged after rejection")
	}
}

func TestAddCustomActivityDefaultsEmptyStat(t *testing.T) {
	p := NewProfile(time.Now())
	next, err := AddCustomActivity(p, ActivityDefinition{ID: "Stretching", BaseXP: 10, BaseDuration: 10})
	if err != nil {
		t.Fatal(err)
	}
	if next.CustomActivities[0].Stat != StatDiscipline {
		t.Fatalf("empty stat should default to discipline, got %q", next.CustomActivities[0].Stat)
	}
}

func TestProfileClone(t *testing.T) {
	p := NewProfile(time.Now())
	p.Logs = append(p.Logs, ActivityLog{ID: "1", ActivityID: "Workout"})
	p.Inventory = append(p.Inventory, "Potion")
	cp := p.Clone()
	cp.Stats[StatStrength] = 99
	cp.Inventory[0] = "Sword"
	if p.Stats[StatStrength] != 0 || p.Inventory[0] != "Potion" {
		t.Fatal("clone must not share backing storage")
	}
}

func TestNormalizeDefaultsMissingFields(t *testing.T) {
	var p Profile
	p.Normalize(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	if p.Level != 1 {
		t.Fatal("level should default to 1")
	}
	if p.Stats == nil || len(p.Stats) != len(Stats) {
		t.Fatal("stats should be populated")
	}
	if p.DailyQuests.Date != "2024-03-01" {
		t.Fatalf("daily quests date should default to today, got %q", p.DailyQuests.Date)
	}
}
