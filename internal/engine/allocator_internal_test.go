package engine

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRunPhaseExcludesZeroReputation(t *testing.T) {
	a := NewAllocator(nil, rand.New(rand.NewSource(1)))
	views := []offeringView{
		{price: decimal.NewFromInt(10), reputation: 0},
		{price: decimal.NewFromInt(20), reputation: 1.5},
	}
	sold, remaining := a.runPhase(views, []int{10, 10}, 15,
		func(x, y offeringView) bool { return x.price.LessThan(y.price) },
		func(v offeringView) bool { return v.reputation > 0 },
	)
	assert.Equal(t, 0, sold[0])
	assert.Equal(t, 10, sold[1])
	assert.Equal(t, 5, remaining)
}
