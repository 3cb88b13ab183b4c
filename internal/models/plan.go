package models

// planRewards maps each purchasable plan amount (USDT) to the points credited
// when the purchase is confirmed. Rates are bespoke per tier, not a uniform
// multiplier.
var planRewards = map[float64]float64{
	15:  16.50,
	25:  27.50,
	50:  55,
	100: 110,
	250: 275,
	500: 550,
}

// ValidPlanAmounts returns the fixed set of purchasable plan amounts.
func ValidPlanAmounts() []float64 {
	return []float64{15, 25, 50, 100, 250, 500}
}

// IsValidPlanAmount reports whether amount is one of the fixed plan tiers.
func IsValidPlanAmount(amount float64) bool {
	_, ok := planRewards[amount]
	return ok
}

// PointsForPlan returns the reward for a plan amount. Unrecognized tiers fall
// back to the amount itself.
func PointsForPlan(amount float64) float64 {
	if reward, ok := planRewards[amount]; ok {
		return reward
	}
	return amount
}
