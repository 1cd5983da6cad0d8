package core

import (
	"errors"
	"strings"
	"time"
)

// ProfileID identifies a stored progression profile. A deployment typically
// holds a single profile, but adapters key by ID so tooling can keep
// scratch profiles side by side.
type ProfileID string

// Stat is one of the fixed progression stats an activity feeds into.
type Stat string

const (
	StatStrength   Stat = "strength"
	StatKnowledge  Stat = "knowledge"
	StatWealth     Stat = "wealth"
	StatMind       Stat = "mind"
	StatDiscipline Stat = "discipline"
)

// Stats lists every stat in display order.
var Stats = []Stat{StatStrength, StatKnowledge, StatWealth, StatMind, StatDiscipline}

// DateFormat is the calendar-date layout used across the profile.
const DateFormat = "2006-01-02"

// ActivityDefinition is a named, stat-tagged template. BaseXP is awarded for
// BaseDuration minutes; longer or shorter sessions scale proportionally.
// Icon and Color are opaque display hints round-tripped for the UI.
type ActivityDefinition struct {
	ID           string `json:"id"`
	Stat         Stat   `json:"stat"`
	BaseXP       int    `json:"base_xp"`
	BaseDuration int    `json:"base_duration"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
}

// ActivityLog is an immutable record of one completed activity. XPEarned is
// fixed at creation and includes any roll, streak, and quest bonuses.
type ActivityLog struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Duration   int       `json:"duration"`
	XPEarned   int       `json:"xp_earned"`
	CreatedAt  time.Time `json:"created_at"`
	Date       string    `json:"date"`
	Critical   bool      `json:"critical"`
}

// DailyQuests tracks the per-day quest checklist. Completed holds activity
// IDs from the quest set logged today; the whole struct is replaced at day
// rollover, never merged across days.
type DailyQuests struct {
	Date       string   `json:"date"`
	Completed  []string `json:"completed"`
	BonusTaken bool     `json:"bonus_taken"`
}

// Has reports whether the given quest activity is already completed today.
func (d DailyQuests) Has(activityID string) bool {
	for _, id := range d.Completed {
		if id == activityID {
			return true
		}
	}
	return false
}

// Profile is the single persisted user-progression aggregate. It is a value
// type: engine transitions take a snapshot and return a new one, and callers
// own replacement and persistence.
type Profile struct {
	Level            int                  `json:"level"`
	CurrentXP        int                  `json:"current_xp"`
	TotalXP          int                  `json:"total_xp"`
	Stats            map[Stat]int         `json:"stats"`
	Logs             []ActivityLog        `json:"logs"`
	Streak           int                  `json:"streak"`
	LastLoginDate    string               `json:"last_login_date"`
	Achievements     []string             `json:"achievements"`
	DailyQuests      DailyQuests          `json:"daily_quests"`
	Inventory        []string             `json:"inventory"`
	CustomActivities []ActivityDefinition `json:"custom_activities,omitempty"`
}

// NewProfile returns the documented initial profile: level 1, zero XP and
// stats, empty collections, and today's empty daily-quest state.
func NewProfile(now time.Time) Profile {
	stats := make(map[Stat]int, len(Stats))
	for _, s := range Stats {
		stats[s] = 0
	}
	return Profile{
		Level:       1,
		Stats:       stats,
		DailyQuests: DailyQuests{Date: now.Format(DateFormat)},
	}
}

// Clone returns a deep copy of the profile to uphold immutability.
func (p Profile) Clone() Profile {
	cp := p
	cp.Stats = make(map[Stat]int, len(p.Stats))
	for k, v := range p.Stats {
		cp.Stats[k] = v
	}
	cp.Logs = append([]ActivityLog(nil), p.Logs...)
	cp.Achievements = append([]string(nil), p.Achievements...)
	cp.Inventory = append([]string(nil), p.Inventory...)
	cp.CustomActivities = append([]ActivityDefinition(nil), p.CustomActivities...)
	cp.DailyQuests.Completed = append([]string(nil), p.DailyQuests.Completed...)
	return cp
}

// HasAchievement reports whether the achievement id is already unlocked.
func (p Profile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Normalize fills in fields that older snapshots may lack so that loading is
// an additive migration, never a destructive rewrite.
func (p *Profile) Normalize(now time.Time) {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Stats == nil {
		p.Stats = make(map[Stat]int, len(Stats))
	}
	for _, s := range Stats {
		if _, ok := p.Stats[s]; !ok {
			p.Stats[s] = 0
		}
	}
	if p.DailyQuests.Date == "" {
		p.DailyQuests = DailyQuests{Date: now.Format(DateFormat)}
	}
}

// NormalizeProfileID trims and lowercases profile identifiers.
func NormalizeProfileID(id ProfileID) (ProfileID, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return "", errors.New("empty profile id")
	}
	return ProfileID(strings.ToLower(s)), nil
}
