package engine_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/teashop-tycoon/internal/engine"
	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
)

// fakeStore backs the allocator with in-memory data.
type fakeStore struct {
	flow      model.CustomerFlow
	flowErr   error
	offerings []engine.OfferingInput
	saved     []engine.SaleUpdate
	saveCalls int
}

func (f *fakeStore) CustomerSegment(ctx context.Context, gameID uint64, round int) (model.CustomerFlow, error) {
	if f.flowErr != nil {
		return model.CustomerFlow{}, f.flowErr
	}
	return f.flow, nil
}

func (f *fakeStore) EligibleOfferings(ctx context.Context, gameID uint64, round int) ([]engine.OfferingInput, error) {
	return f.offerings, nil
}

func (f *fakeStore) SaveSales(ctx context.Context, updates []engine.SaleUpdate) error {
	f.saveCalls++
	f.saved = updates
	return nil
}

func newTestAllocator(store engine.Store) *engine.Allocator {
	return engine.NewAllocator(store, rand.New(rand.NewSource(1)))
}

func offering(id uint64, price int64, produced, totalSold, adScore int) engine.OfferingInput {
	return engine.OfferingInput{
		ProductionID:        id,
		ProductID:           id,
		PlayerID:            id,
		PlayerName:          "player",
		ProductName:         "Milk Tea",
		Price:               decimal.NewFromInt(price),
		ProducedQuantity:    produced,
		TotalSold:           totalSold,
		BaseFanRate:         decimal.NewFromInt(5),
		AdScore:             adScore,
		UnlockedPlayerCount: 1,
	}
}

func TestAllocateMissingFlow(t *testing.T) {
	store := &fakeStore{flowErr: repository.ErrNotFound}
	_, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestAllocateNoOfferings(t *testing.T) {
	store := &fakeStore{flow: model.CustomerFlow{HighTierCustomers: 40, LowTierCustomers: 300}}
	res, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.HighTierServed)
	assert.Equal(t, 0, res.LowTierServed)
	assert.True(t, res.TotalRevenue.IsZero())
	assert.Empty(t, res.SalesDetails)
	assert.Equal(t, 0, store.saveCalls)
}

func TestAllocateLowTierPriceAscending(t *testing.T) {
	// Two fresh offerings at different prices, no high-tier customers.
	// Combined inventory equals demand, so both sell out.
	store := &fakeStore{
		flow: model.CustomerFlow{HighTierCustomers: 0, LowTierCustomers: 20},
		offerings: []engine.OfferingInput{
			offering(1, 15, 10, 0, 0),
			offering(2, 20, 10, 0, 0),
		},
	}
	res, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, res.HighTierServed)
	assert.Equal(t, 20, res.LowTierServed)
	require.Len(t, store.saved, 2)
	assert.Equal(t, 10, store.saved[0].SoldLow)
	assert.Equal(t, 0, store.saved[0].SoldHigh)
	assert.Equal(t, 10, store.saved[1].SoldLow)
	assert.True(t, res.TotalRevenue.Equal(decimal.NewFromInt(15*10+20*10)))
}

func TestAllocateHighTierReputationFirst(t *testing.T) {
	// A advertised (score 6) at price 20 with 5 units; B is fresh at
	// price 10 with 10 units. High tier buys by reputation: A sells out,
	// B covers the remaining 5 and sells its leftover 5 to the low tier.
	store := &fakeStore{
		flow: model.CustomerFlow{HighTierCustomers: 10, LowTierCustomers: 10},
		offerings: []engine.OfferingInput{
			offering(1, 20, 5, 0, 6),
			offering(2, 10, 10, 0, 0),
		},
	}
	res, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)

	require.Len(t, store.saved, 2)
	a, b := store.saved[0], store.saved[1]
	assert.Equal(t, 5, a.SoldHigh)
	assert.Equal(t, 0, a.SoldLow)
	assert.Equal(t, 5, b.SoldHigh)
	assert.Equal(t, 5, b.SoldLow)
	assert.Equal(t, 10, res.HighTierServed)
	assert.Equal(t, 5, res.LowTierServed)
}

func TestAllocateTiedGroupEqualSplit(t *testing.T) {
	// Identical price and reputation, demand below combined inventory:
	// the tie group splits evenly with no randomness needed.
	store := &fakeStore{
		flow: model.CustomerFlow{HighTierCustomers: 0, LowTierCustomers: 10},
		offerings: []engine.OfferingInput{
			offering(1, 15, 10, 0, 0),
			offering(2, 15, 10, 0, 0),
		},
	}
	_, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, store.saved[0].SoldLow)
	assert.Equal(t, 5, store.saved[1].SoldLow)
}

func TestAllocateTiedGroupRemainderSingleUnits(t *testing.T) {
	// Demand 2 over a 3-way tie: the equal share rounds to zero and two
	// members get a single unit each. With a fixed seed the outcome is
	// reproducible across runs.
	build := func() *fakeStore {
		return &fakeStore{
			flow: model.CustomerFlow{HighTierCustomers: 0, LowTierCustomers: 2},
			offerings: []engine.OfferingInput{
				offering(1, 15, 10, 0, 0),
				offering(2, 15, 10, 0, 0),
				offering(3, 15, 10, 0, 0),
			},
		}
	}

	first := build()
	_, err := newTestAllocator(first).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)

	total := 0
	for _, u := range first.saved {
		assert.LessOrEqual(t, u.SoldLow, 1)
		total += u.SoldLow
	}
	assert.Equal(t, 2, total)

	second := build()
	_, err = newTestAllocator(second).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, first.saved, second.saved)
}

func TestAllocateRemainderSkipsExhaustedMembers(t *testing.T) {
	// One tie-group member has less inventory than its equal share. The
	// shortfall must flow to members that still hold units instead of
	// stranding customers.
	store := &fakeStore{
		flow: model.CustomerFlow{HighTierCustomers: 0, LowTierCustomers: 9},
		offerings: []engine.OfferingInput{
			offering(1, 15, 1, 0, 0),
			offering(2, 15, 10, 0, 0),
			offering(3, 15, 10, 0, 0),
		},
	}
	res, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 9, res.LowTierServed)
	assert.Equal(t, 1, store.saved[0].SoldLow)
	assert.Equal(t, 9, store.saved[0].SoldLow+store.saved[1].SoldLow+store.saved[2].SoldLow)
}

func TestAllocateInvariants(t *testing.T) {
	store := &fakeStore{
		flow: model.CustomerFlow{HighTierCustomers: 90, LowTierCustomers: 280},
		offerings: []engine.OfferingInput{
			offering(1, 15, 40, 12, 0),
			offering(2, 20, 55, 0, 4),
			offering(3, 20, 55, 80, 0),
			offering(4, 35, 30, 3, 1),
			offering(5, 10, 25, 0, 0),
		},
	}
	res, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)

	produced := map[uint64]int{1: 40, 2: 55, 3: 55, 4: 30, 5: 25}
	sumHigh, sumLow := 0, 0
	for _, u := range store.saved {
		assert.LessOrEqual(t, u.SoldHigh+u.SoldLow, produced[u.ProductionID])
		assert.Equal(t, u.SoldHigh+u.SoldLow, u.SoldTotal)
		sumHigh += u.SoldHigh
		sumLow += u.SoldLow
	}
	assert.LessOrEqual(t, sumHigh, 90)
	assert.LessOrEqual(t, sumLow, 280)
	assert.Equal(t, sumHigh, res.HighTierServed)
	assert.Equal(t, sumLow, res.LowTierServed)

	// Aggregate inventory (205) is below total demand (370), so every
	// unit sells and the served counts equal the inventory.
	assert.Equal(t, 205, sumHigh+sumLow)

	// Revenue adds up per offering and in total.
	total := decimal.Zero
	for i, u := range store.saved {
		price := store.offerings[i].Price
		assert.True(t, u.Revenue.Equal(price.Mul(decimal.NewFromInt(int64(u.SoldTotal)))))
		total = total.Add(u.Revenue)
	}
	assert.True(t, res.TotalRevenue.Equal(total))
}

func TestAllocateCumulativeSoldCounter(t *testing.T) {
	store := &fakeStore{
		flow: model.CustomerFlow{HighTierCustomers: 0, LowTierCustomers: 7},
		offerings: []engine.OfferingInput{
			offering(1, 15, 10, 42, 0),
		},
	}
	_, err := newTestAllocator(store).Allocate(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 49, store.saved[0].NewTotalSold)
}
