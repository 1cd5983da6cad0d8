package engine

import (
	"fmt"

	"habitquest/core"
)

// Roll classification bands over a single uniform draw in [0,1).
const (
	critChance  = 0.10
	bonusChance = 0.25
	lootChance  = 0.30

	bonusMin = 10
	bonusMax = 29
)

// LootTable is the fixed pool loot rewards draw from. Item names may repeat
// in the inventory.
var LootTable = []string{
	"Health Potion",
	"Energy Drink",
	"Focus Charm",
	"XP Scroll",
	"Mystery Box",
	"Golden Ticket",
}

// rollReward classifies a single draw for one logged activity. It returns
// the earned XP after any crit/bonus adjustment, the critical flag for the
// log entry, and at most one reward.
func rollReward(rng RandSource, baseXP int) (earned int, critical bool, reward *core.Reward) {
	r := rng.Float64()
	switch {
	case r < critChance:
		earned = baseXP * 2
		rw := core.NewCritical(earned)
		return earned, true, &rw
	case r < bonusChance:
		bonus := bonusMin + rng.Intn(bonusMax-bonusMin+1)
		rw := core.NewBonus(bonus, fmt.Sprintf("Bonus! +%d XP", bonus))
		return baseXP + bonus, false, &rw
	case r < lootChance:
		rw := core.NewLoot(LootTable[rng.Intn(len(LootTable))])
		return baseXP, false, &rw
	default:
		return baseXP, false, nil
	}
}
