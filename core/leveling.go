package core

import "math"

const (
	levelBase     = 100.0
	levelExponent = 1.5
)

// XPThreshold returns the cumulative XP required to complete the given
// level, i.e. the total at which level+1 begins. XPThreshold(0) is 0.
func XPThreshold(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(levelBase * math.Pow(float64(level), levelExponent)))
}

// LevelFromXP returns the level implied by a total XP amount. It starts from
// the closed-form estimate floor((xp/100)^(2/3))+1 and then corrects against
// XPThreshold so the pair stays an exact inverse at threshold boundaries
// regardless of floating-point rounding.
func LevelFromXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	lvl := int(math.Floor(math.Pow(float64(totalXP)/levelBase, 1.0/levelExponent))) + 1
	if lvl < 1 {
		lvl = 1
	}
	for lvl > 1 && totalXP < XPThreshold(lvl-1) {
		lvl--
	}
	for totalXP >= XPThreshold(lvl) {
		lvl++
	}
	return lvl
}

// LevelProgress describes a progress bar for one level.
type LevelProgress struct {
	Level    int `json:"level"`
	Progress int `json:"progress"`
	Required int `json:"required"`
}

// ProgressFor returns progress-bar quantities for a total XP amount: XP
// gained within the current level and XP needed to complete it.
func ProgressFor(totalXP int) LevelProgress {
	lvl := LevelFromXP(totalXP)
	floor := XPThreshold(lvl - 1)
	ceil := XPThreshold(lvl)
	return LevelProgress{
		Level:    lvl,
		Progress: totalXP - floor,
		Required: ceil - floor,
	}
}
