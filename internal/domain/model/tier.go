package model

// Tier names a streak bracket that determines the daily bonus size.
type Tier string

const (
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

type tierRule struct {
	tier      Tier
	minStreak int
	bonus     int64
}

// Ordered from highest threshold so lookup picks the best tier the
// streak qualifies for.
var tierRules = []tierRule{
	{TierDiamond, 14, 150},
	{TierPlatinum, 7, 100},
	{TierGold, 3, 75},
	{TierSilver, 1, 50},
}

// TierForStreak resolves the tier and daily bonus for a streak length.
func TierForStreak(streak int) (Tier, int64) {
	for _, r := range tierRules {
		if streak >= r.minStreak {
			return r.tier, r.bonus
		}
	}
	return TierSilver, tierRules[len(tierRules)-1].bonus
}

// BonusForStreak returns the daily claim bonus for a streak length.
func BonusForStreak(streak int) int64 {
	_, bonus := TierForStreak(streak)
	return bonus
}
