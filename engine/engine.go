package engine

import (
	"fmt"
	"math"
	"time"

	"habitquest/core"
)

const disciplinePerLog = 5

// ApplyActivityLog is the progression transition: one logged activity in, a
// new profile snapshot plus an ordered reward list out. The input profile is
// never mutated; on error nothing changes and the zero profile is returned.
//
// The step order is load-bearing: roll, streak, log append, quests, stats,
// level, achievements, loot, login date. It determines both the reward
// sequence shown to the user and which bonuses are baked into the log entry
// (roll and streak XP are; the quest bonus lands after the entry is frozen).
func ApplyActivityLog(p core.Profile, activityID string, duration int, now time.Time, rng RandSource) (core.Profile, []core.Reward, error) {
	if duration <= 0 {
		return core.Profile{}, nil, fmt.Errorf("%w: %d minutes", core.ErrInvalidDuration, duration)
	}
	def, err := core.ResolveActivity(p, activityID)
	if err != nil {
		return core.Profile{}, nil, err
	}

	work := p.Clone()
	today := now.Format(core.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(core.DateFormat)

	// Proportional base XP, rounded half away from zero.
	baseXP := int(math.Round(float64(def.BaseXP) * float64(duration) / float64(def.BaseDuration)))

	var rewards []core.Reward

	earned, critical, rollRw := rollReward(rng, baseXP)
	if rollRw != nil {
		rewards = append(rewards, *rollRw)
	}

	if streakRw := advanceStreak(&work, today, yesterday); streakRw != nil {
		earned += streakRw.XP
		rewards = append(rewards, *streakRw)
	}

	// The ordinal suffix keeps ids distinct when a clock override hands out
	// identical timestamps.
	entry := core.ActivityLog{
		ID:         fmt.Sprintf("%d-%d", now.UnixNano(), len(work.Logs)+1),
		ActivityID: def.ID,
		Duration:   duration,
		XPEarned:   earned,
		CreatedAt:  now,
		Date:       today,
		Critical:   critical,
	}
	work.Logs = append([]core.ActivityLog{entry}, work.Logs...)

	if questRw := updateQuests(&work, def.ID, today); questRw != nil {
		earned += questRw.XP
		rewards = append(rewards, *questRw)
	}

	// Stats accrue the pre-roll base amount; discipline rewards showing up.
	work.Stats[def.Stat] += baseXP
	work.Stats[core.StatDiscipline] += disciplinePerLog

	work.TotalXP += earned
	work.CurrentXP += earned
	lvl := core.LevelFromXP(work.TotalXP)
	if lvl > work.Level {
		rewards = append(rewards, core.NewLevelUp(lvl))
	}
	work.Level = lvl

	rewards = append(rewards, evaluateAchievements(&work, entry)...)

	// Only the first loot-bearing reward ever lands in the inventory.
	for _, rw := range rewards {
		if rw.Item != "" {
			work.Inventory = append(work.Inventory, rw.Item)
			break
		}
	}

	work.LastLoginDate = today
	return work, rewards, nil
}
