package engine

import (
	"time"

	"habitquest/core"
)

// EventType enumerates bus events emitted around a log transition.
type EventType string

const (
	EventActivityLogged EventType = "activity_logged"
	EventReward         EventType = "reward"
	EventProfileSaved   EventType = "profile_saved"
)

// Event is an immutable bus notification. Reward and Log are populated per
// type; TotalXP and Level carry the post-transition snapshot values.
type Event struct {
	Type      EventType         `json:"type"`
	Time      time.Time         `json:"time"`
	ProfileID core.ProfileID    `json:"profile_id"`
	Log       *core.ActivityLog `json:"log,omitempty"`
	Reward    *core.Reward      `json:"reward,omitempty"`
	TotalXP   int               `json:"total_xp,omitempty"`
	Level     int               `json:"level,omitempty"`
}

func NewActivityLogged(id core.ProfileID, log core.ActivityLog, totalXP, level int) Event {
	return Event{Type: EventActivityLogged, Time: time.Now().UTC(), ProfileID: id, Log: &log, TotalXP: totalXP, Level: level}
}

func NewRewardEvent(id core.ProfileID, reward core.Reward) Event {
	return Event{Type: EventReward, Time: time.Now().UTC(), ProfileID: id, Reward: &reward}
}

func NewProfileSaved(id core.ProfileID, totalXP, level int) Event {
	return Event{Type: EventProfileSaved, Time: time.Now().UTC(), ProfileID: id, TotalXP: totalXP, Level: level}
}
