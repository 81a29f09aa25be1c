package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidatePrice checks that a unit price sits in the allowed range and on
// the allowed step. Returns a descriptive error when it does not.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThan(decimal.NewFromInt(MinPrice)) || price.GreaterThan(decimal.NewFromInt(MaxPrice)) {
		return fmt.Errorf("price must be between %d and %d, got %s", MinPrice, MaxPrice, price)
	}
	if !price.Mod(decimal.NewFromInt(PriceStep)).IsZero() {
		return fmt.Errorf("price must be a multiple of %d, got %s", PriceStep, price)
	}
	return nil
}

// ValidateDice checks an offline die roll entered by a player.
func ValidateDice(result int) error {
	if result < 1 || result > 6 {
		return fmt.Errorf("invalid dice result %d: must be between 1 and 6", result)
	}
	return nil
}

// ResearchSucceeds reports whether a die roll unlocks a recipe of the
// given difficulty. The difficulty is the minimum roll.
func ResearchSucceeds(diceResult, difficulty int) bool {
	return diceResult >= difficulty
}
