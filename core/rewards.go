package core

import "fmt"

// RewardKind enumerates the closed set of reward outcomes a single log
// transition can produce.
type RewardKind string

const (
	RewardCritical      RewardKind = "critical"
	RewardBonus         RewardKind = "bonus"
	RewardLoot          RewardKind = "loot"
	RewardLevelUp       RewardKind = "level_up"
	RewardQuestComplete RewardKind = "quest_complete"
	RewardAchievement   RewardKind = "achievement"
)

// Reward describes one bonus outcome of a log transition. XP, Item, Level
// and AchievementID are populated per kind; Message is presentation text the
// UI may replace.
type Reward struct {
	Kind          RewardKind `json:"kind"`
	XP            int        `json:"xp,omitempty"`
	Item          string     `json:"item,omitempty"`
	Level         int        `json:"level,omitempty"`
	AchievementID string     `json:"achievement_id,omitempty"`
	Message       string     `json:"message"`
}

func NewCritical(xp int) Reward {
	return Reward{Kind: RewardCritical, XP: xp, Message: fmt.Sprintf("Critical! XP doubled to %d", xp)}
}

func NewBonus(xp int, message string) Reward {
	return Reward{Kind: RewardBonus, XP: xp, Message: message}
}

func NewLoot(item string) Reward {
	return Reward{Kind: RewardLoot, Item: item, Message: fmt.Sprintf("You found: %s", item)}
}

func NewLevelUp(level int) Reward {
	return Reward{Kind: RewardLevelUp, Level: level, Message: fmt.Sprintf("Level up! You reached level %d", level)}
}

func NewQuestComplete(xp int) Reward {
	return Reward{Kind: RewardQuestComplete, XP: xp, Message: "All daily quests complete!"}
}

func NewAchievement(id, title string) Reward {
	return Reward{Kind: RewardAchievement, AchievementID: id, Message: fmt.Sprintf("Achievement unlocked: %s", title)}
}
