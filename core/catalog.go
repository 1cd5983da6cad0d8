package core

import (
	"errors"
	"fmt"
)

// Builtins is the fixed activity catalog shipped with the engine. Custom
// activities from the profile are appended after these; lookups prefer the
// first match.
var Builtins = []ActivityDefinition{
	{ID: "Workout", Stat: StatStrength, BaseXP: 40, BaseDuration: 30, Icon: "dumbbell", Color: "red"},
	{ID: "Reading", Stat: StatKnowledge, BaseXP: 30, BaseDuration: 30, Icon: "book", Color: "blue"},
	{ID: "Meditation", Stat: StatMind, BaseXP: 25, BaseDuration: 15, Icon: "lotus", Color: "purple"},
	{ID: "Work", Stat: StatWealth, BaseXP: 50, BaseDuration: 60, Icon: "briefcase", Color: "green"},
	{ID: "Studying", Stat: StatKnowledge, BaseXP: 45, BaseDuration: 45, Icon: "pencil", Color: "orange"},
	{ID: "Journaling", Stat: StatMind, BaseXP: 20, BaseDuration: 10, Icon: "notebook", Color: "teal"},
}

// QuestActivities is the fixed subset of the catalog that counts toward the
// daily quest checklist.
var QuestActivities = []string{"Workout", "Reading", "Meditation", "Work"}

// ResolveActivity looks up a definition by id across the built-ins followed
// by the profile's custom activities. It fails with ErrUnknownActivity when
// no definition matches.
func ResolveActivity(p Profile, id string) (ActivityDefinition, error) {
	for _, def := range Builtins {
		if def.ID == id {
			return def, nil
		}
	}
	for _, def := range p.CustomActivities {
		if def.ID == id {
			return def, nil
		}
	}
	return ActivityDefinition{}, fmt.Errorf("%w: %q", ErrUnknownActivity, id)
}

// AddCustomActivity returns a new profile with the definition appended to
// its custom activities. The identifier must not collide with a built-in or
// an existing custom activity, XP and duration must be positive, and the
// stat, when set, must name one of the known stats.
func AddCustomActivity(p Profile, def ActivityDefinition) (Profile, error) {
	if def.ID == "" {
		return Profile{}, errors.New("custom activity id cannot be empty")
	}
	if def.BaseXP <= 0 || def.BaseDuration <= 0 {
		return Profile{}, errors.New("custom activity base xp and duration must be positive")
	}
	if _, err := ResolveActivity(p, def.ID); err == nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrDuplicateActivity, def.ID)
	}
	if def.Stat == "" {
		def.Stat = StatDiscipline
	} else if !validStat(def.Stat) {
		return Profile{}, fmt.Errorf("unknown stat %q", def.Stat)
	}
	next := p.Clone()
	next.CustomActivities = append(next.CustomActivities, def)
	return next, nil
}

func validStat(s Stat) bool {
	for _, known := range Stats {
		if s == known {
			return true
		}
	}
	return false
}

// Catalog returns the effective activity list for a profile: built-ins first,
// then custom definitions in insertion order.
func Catalog(p Profile) []ActivityDefinition {
	out := make([]ActivityDefinition, 0, len(Builtins)+len(p.CustomActivities))
	out = append(out, Builtins...)
	out = append(out, p.CustomActivities...)
	return out
}
