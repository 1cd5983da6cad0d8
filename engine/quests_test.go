package engine

import (
	"testing"
	"time"

	"habitquest/core"
)

func TestDailyQuestBonusOncePerDay(t *testing.T) {
	p := core.NewProfile(testNow)
	now := testNow
	var all []core.Reward
	for _, id := range core.QuestActivities {
		var rewards []core.Reward
		var err error
		p, rewards, err = ApplyActivityLog(p, id, 30, now, noRoll())
		if err != nil {
			t.Fatal(err)
		}
		all = append(all, rewards...)
		now = now.Add(time.Minute)
	}

	questBonuses := 0
	for _, rw := range all {
		if rw.Kind == core.RewardQuestComplete {
			questBonuses++
			if rw.XP != questBonusXP {
				t.Fatalf("quest bonus XP = %d, want %d", rw.XP, questBonusXP)
			}
		}
	}
	if questBonuses != 1 {
		t.Fatalf("expected exactly one quest bonus, got %d", questBonuses)
	}
	if !p.DailyQuests.BonusTaken {
		t.Fatal("bonus should be marked claimed")
	}

	// a 5th log of an already-completed quest type must not re-award
	next, rewards, err := ApplyActivityLog(p, "Workout", 30, now, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	for _, rw := range rewards {
		if rw.Kind == core.RewardQuestComplete {
			t.Fatal("quest bonus awarded twice in one day")
		}
	}
	if len(next.DailyQuests.Completed) != len(core.QuestActivities) {
		t.Fatalf("completed set grew past the quest set: %v", next.DailyQuests.Completed)
	}
}

func TestDailyQuestRolloverReplacesTracker(t *testing.T) {
	p := core.NewProfile(testNow)
	p, _, err := ApplyActivityLog(p, "Workout", 30, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if !p.DailyQuests.Has("Workout") {
		t.Fatal("Workout should be in today's completed set")
	}

	tomorrow := testNow.AddDate(0, 0, 1)
	p, _, err = ApplyActivityLog(p, "Reading", 30, tomorrow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if p.DailyQuests.Date != tomorrow.Format(core.DateFormat) {
		t.Fatalf("tracker date = %q, want tomorrow", p.DailyQuests.Date)
	}
	if p.DailyQuests.Has("Workout") {
		t.Fatal("rollover must replace the completed set, not merge it")
	}
	if p.DailyQuests.BonusTaken {
		t.Fatal("rollover must clear the bonus flag")
	}
}

func TestNonQuestActivityDoesNotTouchChecklist(t *testing.T) {
	p := core.NewProfile(testNow)
	p, _, err := ApplyActivityLog(p, "Journaling", 10, testNow, noRoll())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.DailyQuests.Completed) != 0 {
		t.Fatalf("journaling is not a quest activity, got %v", p.DailyQuests.Completed)
	}
}
