package engine

import "habitquest/core"

const questBonusXP = 80

// updateQuests applies a log event to the daily quest checklist. On a day
// rollover the tracker is replaced wholesale, never merged. Completing the
// full quest set claims the one-time daily bonus and returns its reward.
func updateQuests(work *core.Profile, activityID, today string) *core.Reward {
	if work.DailyQuests.Date != today {
		work.DailyQuests = core.DailyQuests{Date: today}
	}
	if !isQuestActivity(activityID) || work.DailyQuests.Has(activityID) {
		return nil
	}
	work.DailyQuests.Completed = append(work.DailyQuests.Completed, activityID)
	if len(work.DailyQuests.Completed) == len(core.QuestActivities) && !work.DailyQuests.BonusTaken {
		work.DailyQuests.BonusTaken = true
		rw := core.NewQuestComplete(questBonusXP)
		return &rw
	}
	return nil
}

func isQuestActivity(id string) bool {
	for _, q := range core.QuestActivities {
		if q == id {
			return true
		}
	}
	return false
}
