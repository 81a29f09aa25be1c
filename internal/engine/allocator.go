package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// Store is the allocator's view of persistence. Implementations must
// return repository.ErrNotFound (wrapped or not) from CustomerSegment when
// no flow record exists for the round, and SaveSales must apply all
// updates in a single transaction.
type Store interface {
	CustomerSegment(ctx context.Context, gameID uint64, roundNumber int) (model.CustomerFlow, error)
	EligibleOfferings(ctx context.Context, gameID uint64, roundNumber int) ([]OfferingInput, error)
	SaveSales(ctx context.Context, updates []SaleUpdate) error
}

// OfferingInput is one eligible production line as read from storage:
// produced quantity > 0, owner active, product unlocked.
type OfferingInput struct {
	ProductionID        uint64
	ProductID           uint64
	PlayerID            uint64
	PlayerName          string
	ProductName         string
	Price               decimal.Decimal
	ProducedQuantity    int
	TotalSold           int // cumulative units sold before this round
	BaseFanRate         decimal.Decimal
	AdScore             int
	UnlockedPlayerCount int
}

// SaleUpdate is the write-back for one offering after both phases.
type SaleUpdate struct {
	ProductionID uint64
	ProductID    uint64
	SoldHigh     int
	SoldLow      int
	SoldTotal    int
	Revenue      decimal.Decimal
	NewTotalSold int
}

// SaleDetail is the per-offering slice of the settlement report returned
// to the caller.
type SaleDetail struct {
	ProductionID uint64          `json:"production_id"`
	PlayerID     uint64          `json:"player_id"`
	PlayerName   string          `json:"player_name"`
	ProductName  string          `json:"product_name"`
	Price        decimal.Decimal `json:"price"`
	Reputation   float64         `json:"reputation"`
	AdScore      int             `json:"ad_score"`
	Produced     int             `json:"produced"`
	SoldHigh     int             `json:"sold_to_high_tier"`
	SoldLow      int             `json:"sold_to_low_tier"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// Result is the aggregate settlement outcome for one round.
type Result struct {
	HighTierServed int             `json:"high_tier_served"`
	LowTierServed  int             `json:"low_tier_served"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	SalesDetails   []SaleDetail    `json:"sales_details"`
}

// Allocator settles one round of one game: it scores every eligible
// offering, runs the high-tier pass then the low-tier pass over the
// remaining inventory, and writes the sales back through the store.
//
// The allocator is not safe for concurrent settlement of the same game;
// the caller must serialize calls per game. The random source is only
// used to break ties when leftover demand no longer divides evenly across
// a tied group, so a fixed seed makes the whole settlement deterministic.
type Allocator struct {
	store Store
	rng   *rand.Rand
}

// NewAllocator builds an allocator over the given store and random source.
func NewAllocator(store Store, rng *rand.Rand) *Allocator {
	return &Allocator{store: store, rng: rng}
}

// offeringView is the immutable per-offering snapshot both phases read.
type offeringView struct {
	price      decimal.Decimal
	reputation float64
}

// Allocate runs the full settlement for (gameID, roundNumber).
// A missing customer flow record is an error; zero eligible offerings is
// not and yields an all-zero result.
func (a *Allocator) Allocate(ctx context.Context, gameID uint64, roundNumber int) (*Result, error) {
	flow, err := a.store.CustomerSegment(ctx, gameID, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("customer flow for game %d round %d: %w", gameID, roundNumber, err)
	}

	inputs, err := a.store.EligibleOfferings(ctx, gameID, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("eligible offerings for game %d round %d: %w", gameID, roundNumber, err)
	}
	if len(inputs) == 0 {
		return &Result{TotalRevenue: decimal.Zero, SalesDetails: []SaleDetail{}}, nil
	}

	views := make([]offeringView, len(inputs))
	produced := make([]int, len(inputs))
	for i, in := range inputs {
		views[i] = offeringView{
			price: in.Price,
			reputation: ReputationScore(ScoreInput{
				BaseFanRate:         in.BaseFanRate.InexactFloat64(),
				UnlockedPlayerCount: in.UnlockedPlayerCount,
				TotalSold:           in.TotalSold,
				AdScore:             in.AdScore,
			}),
		}
		produced[i] = in.ProducedQuantity
	}

	// Phase A: high tier. Reputation descending, price ascending, every
	// offering participates.
	soldHigh, remainingHigh := a.runPhase(views, produced, flow.HighTierCustomers,
		func(x, y offeringView) bool {
			if x.reputation != y.reputation {
				return x.reputation > y.reputation
			}
			return x.price.LessThan(y.price)
		},
		func(v offeringView) bool { return true },
	)

	// Phase B: low tier over the leftover inventory. Price ascending,
	// reputation descending; zero-reputation offerings are hard-excluded.
	leftover := make([]int, len(inputs))
	for i := range inputs {
		leftover[i] = produced[i] - soldHigh[i]
	}
	soldLow, remainingLow := a.runPhase(views, leftover, flow.LowTierCustomers,
		func(x, y offeringView) bool {
			if !x.price.Equal(y.price) {
				return x.price.LessThan(y.price)
			}
			return x.reputation > y.reputation
		},
		func(v offeringView) bool { return v.reputation > 0 },
	)

	updates := make([]SaleUpdate, len(inputs))
	details := make([]SaleDetail, len(inputs))
	totalRevenue := decimal.Zero
	for i, in := range inputs {
		soldTotal := soldHigh[i] + soldLow[i]
		revenue := in.Price.Mul(decimal.NewFromInt(int64(soldTotal)))
		totalRevenue = totalRevenue.Add(revenue)

		updates[i] = SaleUpdate{
			ProductionID: in.ProductionID,
			ProductID:    in.ProductID,
			SoldHigh:     soldHigh[i],
			SoldLow:      soldLow[i],
			SoldTotal:    soldTotal,
			Revenue:      revenue,
			NewTotalSold: in.TotalSold + soldTotal,
		}
		details[i] = SaleDetail{
			ProductionID: in.ProductionID,
			PlayerID:     in.PlayerID,
			PlayerName:   in.PlayerName,
			ProductName:  in.ProductName,
			Price:        in.Price,
			Reputation:   views[i].reputation,
			AdScore:      in.AdScore,
			Produced:     in.ProducedQuantity,
			SoldHigh:     soldHigh[i],
			SoldLow:      soldLow[i],
			Revenue:      revenue,
		}
	}

	if err := a.store.SaveSales(ctx, updates); err != nil {
		return nil, fmt.Errorf("save sales for game %d round %d: %w", gameID, roundNumber, err)
	}

	return &Result{
		HighTierServed: flow.HighTierCustomers - remainingHigh,
		LowTierServed:  flow.LowTierCustomers - remainingLow,
		TotalRevenue:   totalRevenue,
		SalesDetails:   details,
	}, nil
}

// runPhase allocates demand across offerings ordered by less, treating
// offerings with exactly equal (price, reputation) keys as one tied
// group. avail is the phase's working inventory and is not mutated; the
// returned slice holds units sold per offering, aligned with views.
func (a *Allocator) runPhase(views []offeringView, avail []int, demand int,
	less func(x, y offeringView) bool, include func(v offeringView) bool) (sold []int, remaining int) {

	sold = make([]int, len(views))
	remaining = demand
	if remaining <= 0 {
		return sold, remaining
	}

	left := make([]int, len(avail))
	copy(left, avail)

	order := make([]int, 0, len(views))
	for i, v := range views {
		if include(v) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(x, y int) bool {
		return less(views[order[x]], views[order[y]])
	})

	for start := 0; start < len(order) && remaining > 0; {
		// Extend the tied group: identical price and reputation.
		end := start + 1
		for end < len(order) && sameKey(views[order[start]], views[order[end]]) {
			end++
		}
		group := order[start:end]
		start = end

		totalAvailable := 0
		for _, i := range group {
			totalAvailable += left[i]
		}
		if totalAvailable == 0 {
			continue
		}

		if remaining >= totalAvailable {
			// Demand covers the whole group: sell everything.
			for _, i := range group {
				sold[i] += left[i]
				remaining -= left[i]
				left[i] = 0
			}
			continue
		}

		a.splitGroup(group, sold, left, &remaining)
	}

	return sold, remaining
}

// splitGroup distributes remaining demand inside one tied group whose
// combined inventory exceeds the demand: repeated equal shares capped by
// each member's inventory, then shuffled single-unit grants once the
// equal share rounds down to zero.
func (a *Allocator) splitGroup(group []int, sold, left []int, remaining *int) {
	active := make([]int, len(group))
	copy(active, group)

	for *remaining > 0 && len(active) > 0 {
		share := *remaining / len(active)
		if share == 0 {
			a.grantRemainder(active, sold, left, remaining)
			return
		}

		next := make([]int, 0, len(active))
		for _, i := range active {
			grant := share
			if left[i] < grant {
				grant = left[i]
			}
			sold[i] += grant
			left[i] -= grant
			*remaining -= grant
			if left[i] > 0 {
				next = append(next, i)
			}
		}
		active = next
	}
}

// grantRemainder hands out the final single units of demand in a shuffled
// order over the members that still have inventory, cycling until demand
// or inventory runs out. This is the only nondeterministic step in a
// settlement.
func (a *Allocator) grantRemainder(active []int, sold, left []int, remaining *int) {
	candidates := make([]int, 0, len(active))
	for _, i := range active {
		if left[i] > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return
	}
	a.rng.Shuffle(len(candidates), func(x, y int) {
		candidates[x], candidates[y] = candidates[y], candidates[x]
	})

	for *remaining > 0 {
		granted := false
		for _, i := range candidates {
			if *remaining == 0 {
				break
			}
			if left[i] > 0 {
				sold[i]++
				left[i]--
				*remaining--
				granted = true
			}
		}
		if !granted {
			return
		}
	}
}

func sameKey(x, y offeringView) bool {
	return x.reputation == y.reputation && x.price.Equal(y.price)
}
