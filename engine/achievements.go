package engine

import "habitquest/core"

// Achievement pairs a stable id with a pure unlock predicate. Predicates see
// the tentative post-transition profile plus the log entry that triggered
// evaluation, and are never re-run once unlocked.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Unlocked    func(p core.Profile, entry core.ActivityLog) bool
}

// Registry is the static achievement list, evaluated in declared order on
// every log event.
var Registry = []Achievement{
	{
		ID:          "first_log",
		Title:       "First Steps",
		Description: "Log your first activity",
		Unlocked: func(p core.Profile, _ core.ActivityLog) bool {
			return len(p.Logs) == 1
		},
	},
	{
		ID:          "week_streak",
		Title:       "Week Warrior",
		Description: "Keep a 7-day streak",
		Unlocked: func(p core.Profile, _ core.ActivityLog) bool {
			return p.Streak >= 7
		},
	},
	{
		ID:          "iron_body",
		Title:       "Iron Body",
		Description: "Accumulate 1800 minutes of workouts",
		Unlocked: func(p core.Profile, _ core.ActivityLog) bool {
			total := 0
			for _, log := range p.Logs {
				if log.ActivityID == "Workout" {
					total += log.Duration
				}
			}
			return total >= 1800
		},
	},
	{
		ID:          "power_day",
		Title:       "Power Day",
		Description: "Earn 100 XP in a single day",
		Unlocked: func(p core.Profile, entry core.ActivityLog) bool {
			total := 0
			for _, log := range p.Logs {
				if log.Date == entry.Date {
					total += log.XPEarned
				}
			}
			return total >= 100
		},
	},
	{
		ID:          "early_bird",
		Title:       "Early Bird",
		Description: "Log an activity between 4am and 8am",
		Unlocked: func(_ core.Profile, entry core.ActivityLog) bool {
			h := entry.CreatedAt.Hour()
			return h >= 4 && h < 8
		},
	},
	{
		ID:          "seasoned",
		Title:       "Seasoned",
		Description: "Reach level 5",
		Unlocked: func(p core.Profile, _ core.ActivityLog) bool {
			return p.Level >= 5
		},
	},
	{
		ID:          "veteran",
		Title:       "Veteran",
		Description: "Reach level 10",
		Unlocked: func(p core.Profile, _ core.ActivityLog) bool {
			return p.Level >= 10
		},
	},
	{
		ID:          "century",
		Title:       "Centurion",
		Description: "Log 100 activities",
		Unlocked: func(p core.Profile, _ core.ActivityLog) bool {
			return len(p.Logs) >= 100
		},
	},
}

// evaluateAchievements runs the registry against the working profile and the
// new log entry, appending newly satisfied ids in declared order.
func evaluateAchievements(work *core.Profile, entry core.ActivityLog) []core.Reward {
	var rewards []core.Reward
	for _, a := range Registry {
		if work.HasAchievement(a.ID) {
			continue
		}
		if a.Unlocked(*work, entry) {
			work.Achievements = append(work.Achievements, a.ID)
			rewards = append(rewards, core.NewAchievement(a.ID, a.Title))
		}
	}
	return rewards
}

// AchievementStatus reports an achievement with its unlocked flag for a
// profile, for display surfaces.
type AchievementStatus struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// AchievementsFor lists the full registry with per-profile unlocked state.
func AchievementsFor(p core.Profile) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(Registry))
	for _, a := range Registry {
		out = append(out, AchievementStatus{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Unlocked:    p.HasAchievement(a.ID),
		})
	}
	return out
}
