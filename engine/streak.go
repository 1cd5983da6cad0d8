package engine

import (
	"time"

	"habitquest/core"
)

const streakBonusXP = 100

// nextStreak applies the day-granularity streak policy. A second log on the
// same day leaves the count alone; logging the day after the last login
// extends it; any wider gap (or no prior date) restarts at 1.
func nextStreak(current int, lastLogin, today, yesterday string) (streak int, changed bool) {
	switch lastLogin {
	case today:
		return current, false
	case yesterday:
		return current + 1, true
	default:
		return 1, true
	}
}

// advanceStreak updates the working profile's streak for a log on today and
// returns the +100 XP bonus reward when the transition itself crosses a
// multiple of 7. Subsequent logs the same day do not re-emit the bonus.
func advanceStreak(work *core.Profile, today, yesterday string) *core.Reward {
	streak, changed := nextStreak(work.Streak, work.LastLoginDate, today, yesterday)
	work.Streak = streak
	if changed && streak > 0 && streak%7 == 0 {
		rw := core.NewBonus(streakBonusXP, "Streak milestone! +100 XP")
		return &rw
	}
	return nil
}

// ReconcileStreak is the session-start reconciliation: when the stored last
// login is strictly earlier than yesterday, the streak is force-reset to 0
// before any new activity is logged. It runs at profile load, never between
// the steps of a log transition.
func ReconcileStreak(p core.Profile, now time.Time) core.Profile {
	if p.LastLoginDate == "" || p.Streak == 0 {
		return p
	}
	today := now.Format(core.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(core.DateFormat)
	if p.LastLoginDate != today && p.LastLoginDate != yesterday {
		next := p.Clone()
		next.Streak = 0
		return next
	}
	return p
}
