// Package engine implements the round-settlement core: reputation scoring,
// bulk material discount pricing, and the two-phase customer flow
// allocation that turns submitted production plans into sales. The package
// is pure computation over snapshots; persistence stays behind the Store
// interface and randomness behind an injected source.
package engine

// Fan-rate tuning. The base fan rate of a recipe decays by
// fanRateDecayStep percentage points for every additional player that has
// unlocked it, but never below minFanRate.
const (
	fanRateDecayStep = 5.0
	minFanRate       = 5.0

	// minReputation is the absolute floor used when a product has no
	// history and no advertisement, so low-tier customers (who require a
	// positive reputation) can still be allocated on round one.
	minReputation = 0.01
)

// ScoreInput carries everything the reputation formula needs. All values
// are assumed validated and non-negative by the producing layer.
type ScoreInput struct {
	BaseFanRate         float64 // recipe base fan-acquisition rate, percent
	UnlockedPlayerCount int     // players in the game that unlocked the recipe
	TotalSold           int     // cumulative units sold to date
	AdScore             int     // this round's ad score, 0 if none placed
}

// ReputationScore computes a product's market standing for the round:
//
//	rate       = max(base - (unlocked-1)*5, 5) percent
//	reputation = adScore + rate/100 * totalSold
//
// A non-positive result is replaced with max(rate/100, 0.01) so every
// unlocked product has a strictly positive reputation.
func ReputationScore(in ScoreInput) float64 {
	decay := float64(in.UnlockedPlayerCount-1) * fanRateDecayStep
	rate := in.BaseFanRate - decay
	if rate < minFanRate {
		rate = minFanRate
	}
	rateDecimal := rate / 100.0

	reputation := float64(in.AdScore) + rateDecimal*float64(in.TotalSold)
	if reputation <= 0 {
		floor := rateDecimal
		if floor < minReputation {
			floor = minReputation
		}
		return floor
	}
	return reputation
}
