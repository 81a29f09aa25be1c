package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidatePrice(t *testing.T) {
	for _, p := range []int64{10, 15, 25, 40} {
		assert.NoError(t, ValidatePrice(decimal.NewFromInt(p)), "price %d", p)
	}
	for _, p := range []int64{5, 9, 12, 41, 45, 100} {
		assert.Error(t, ValidatePrice(decimal.NewFromInt(p)), "price %d", p)
	}
	assert.Error(t, ValidatePrice(decimal.RequireFromString("10.5")))
}

func TestValidateDice(t *testing.T) {
	for d := 1; d <= 6; d++ {
		assert.NoError(t, ValidateDice(d))
	}
	assert.Error(t, ValidateDice(0))
	assert.Error(t, ValidateDice(7))
	assert.Error(t, ValidateDice(-1))
}

func TestResearchSucceeds(t *testing.T) {
	assert.True(t, ResearchSucceeds(3, 3))
	assert.True(t, ResearchSucceeds(6, 1))
	assert.False(t, ResearchSucceeds(2, 3))
	assert.False(t, ResearchSucceeds(5, 6))
}

func TestCustomerFlowScriptCoversAllRounds(t *testing.T) {
	assert.Len(t, CustomerFlowScript, TotalRounds)
	for round := 1; round <= TotalRounds; round++ {
		f, ok := CustomerFlowScript[round]
		assert.True(t, ok, "round %d", round)
		assert.Positive(t, f.HighTier, "round %d", round)
		assert.Positive(t, f.LowTier, "round %d", round)
	}
}

func TestRecipeCatalogMaterials(t *testing.T) {
	assert.NotEmpty(t, RecipeCatalog)
	for _, r := range RecipeCatalog {
		assert.GreaterOrEqual(t, r.Difficulty, 1, r.Name)
		assert.LessOrEqual(t, r.Difficulty, 6, r.Name)
		assert.NotEmpty(t, r.Materials, r.Name)
		assert.NotEqual(t, "{}", r.MaterialsJSONString(), r.Name)
	}
}
