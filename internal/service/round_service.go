package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/engine"
	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/queue"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
)

// RoundService orchestrates a round settlement: it verifies every active
// player has a plan, generates the round's customer flow, runs the
// allocator, books each player's finances and advances the game.
//
// Settlements of the same game are serialized with a per-game mutex;
// settlements of different games run concurrently.
type RoundService struct {
	games       *repository.GameRepo
	players     *repository.PlayerRepo
	productions *repository.ProductionRepo
	products    *repository.ProductRepo
	flows       *repository.CustomerFlowRepo
	shops       *repository.ShopRepo
	market      *repository.MarketRepo
	finance     *repository.FinanceRepo
	settlements *repository.SettlementRepo

	// seed fixes the allocator's random source for reproducible
	// settlements; zero derives a fresh seed per settlement.
	seed int64

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewRoundService constructs a RoundService.
func NewRoundService(games *repository.GameRepo, players *repository.PlayerRepo,
	productions *repository.ProductionRepo, products *repository.ProductRepo,
	flows *repository.CustomerFlowRepo, shops *repository.ShopRepo,
	market *repository.MarketRepo, finance *repository.FinanceRepo,
	settlements *repository.SettlementRepo, seed int64) *RoundService {
	return &RoundService{
		games:       games,
		players:     players,
		productions: productions,
		products:    products,
		flows:       flows,
		shops:       shops,
		market:      market,
		finance:     finance,
		settlements: settlements,
		seed:        seed,
		locks:       make(map[uint64]*sync.Mutex),
	}
}

func (s *RoundService) gameLock(gameID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	return l
}

// SettlementSummary is the full outcome of one settled round.
type SettlementSummary struct {
	RoundNumber  int                   `json:"round_number"`
	Flow         *model.CustomerFlow   `json:"customer_flow"`
	Allocation   *engine.Result        `json:"allocation"`
	Finances     []model.FinanceRecord `json:"finances"`
	GameFinished bool                  `json:"game_finished"`
}

// Settle runs the settlement of the game's current round. Host only.
func (s *RoundService) Settle(ctx context.Context, gameID, playerID uint64) (*SettlementSummary, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusInProgress {
		return nil, ErrGameNotInProgress
	}
	if game.HostPlayerID == nil || *game.HostPlayerID != playerID {
		return nil, ErrNotHost
	}
	round := game.CurrentRound

	roster, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for _, p := range roster {
		if !p.IsActive {
			continue
		}
		has, err := s.productions.HasPlan(ctx, p.ID, round)
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, ErrPlansMissing
		}
	}

	entry := rules.CustomerFlowScript[round]
	flow := &model.CustomerFlow{
		GameID:            gameID,
		RoundNumber:       round,
		HighTierCustomers: entry.HighTier,
		LowTierCustomers:  entry.LowTier,
	}
	if err := s.flows.Insert(ctx, flow); err != nil {
		return nil, err
	}

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	allocator := engine.NewAllocator(s.settlements, rand.New(rand.NewSource(seed)))
	result, err := allocator.Allocate(ctx, gameID, round)
	if err != nil {
		return nil, err
	}

	revenueByPlayer := make(map[uint64]decimal.Decimal, len(roster))
	for _, d := range result.SalesDetails {
		revenueByPlayer[d.PlayerID] = revenueByPlayer[d.PlayerID].Add(d.Revenue)
	}

	finances := make([]model.FinanceRecord, 0, len(roster))
	for _, p := range roster {
		if !p.IsActive {
			continue
		}
		record, err := s.bookPlayer(ctx, p, round, revenueByPlayer[p.ID])
		if err != nil {
			return nil, err
		}
		finances = append(finances, *record)
	}

	// Advertisements only cover the round they were bought in.
	if err := s.products.ResetAdScores(ctx, gameID); err != nil {
		return nil, err
	}

	finished := round >= rules.TotalRounds
	if finished {
		if err := s.games.Finish(ctx, gameID); err != nil {
			return nil, err
		}
	} else {
		if err := s.games.AdvanceRound(ctx, gameID, round); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, game, round, result)

	return &SettlementSummary{
		RoundNumber:  round,
		Flow:         flow,
		Allocation:   result,
		Finances:     finances,
		GameFinished: finished,
	}, nil
}

// bookPlayer settles one player's books for the round: revenue in, rent
// and salaries out, already-paid expenses itemized for the record. Rent
// and salaries are the only charges applied here; materials, ads and
// research were paid when bought.
func (s *RoundService) bookPlayer(ctx context.Context, p model.Player, round int, revenue decimal.Decimal) (*model.FinanceRecord, error) {
	rent := decimal.Zero
	salary := decimal.Zero
	if shop, err := s.shops.GetByPlayer(ctx, p.ID); err == nil {
		rent = shop.Rent
		employees, err := s.shops.ListEmployees(ctx, shop.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range employees {
			salary = salary.Add(e.Salary)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	material := decimal.Zero
	purchases, err := s.finance.PurchasesForRound(ctx, p.ID, round)
	if err != nil {
		return nil, err
	}
	for _, buy := range purchases {
		material = material.Add(buy.TotalCost)
	}

	ad := decimal.Zero
	marketResearch := decimal.Zero
	actions, err := s.market.ListActionsByPlayer(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		if a.RoundNumber != round {
			continue
		}
		switch a.ActionType {
		case model.MarketActionAd:
			ad = ad.Add(a.Cost)
		case model.MarketActionResearch:
			marketResearch = marketResearch.Add(a.Cost)
		}
	}

	productResearch := decimal.Zero
	logs, err := s.market.ListResearchByPlayer(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		if l.RoundNumber == round {
			productResearch = productResearch.Add(l.Cost)
		}
	}

	totalExpense := rent.Add(salary).Add(material).Add(ad).Add(marketResearch).Add(productResearch)
	roundProfit := revenue.Sub(totalExpense)

	// Revenue minus the charges not yet taken; rent and salary can push
	// the balance negative, which the game reads as looming bankruptcy.
	net := revenue.Sub(rent).Sub(salary)
	if net.IsPositive() {
		if err := s.players.CreditCash(ctx, p.ID, net); err != nil {
			return nil, err
		}
	} else if net.IsNegative() {
		if err := s.players.ForceDebit(ctx, p.ID, net.Neg()); err != nil {
			return nil, err
		}
	}

	if err := s.players.AddProfit(ctx, p.ID, roundProfit); err != nil {
		return nil, err
	}

	record := &model.FinanceRecord{
		PlayerID:         p.ID,
		RoundNumber:      round,
		TotalRevenue:     revenue,
		RentExpense:      rent,
		SalaryExpense:    salary,
		MaterialExpense:  material,
		AdExpense:        ad,
		ResearchExpense:  marketResearch,
		ProductResearch:  productResearch,
		TotalExpense:     totalExpense,
		RoundProfit:      roundProfit,
		CumulativeProfit: p.TotalProfit.Add(roundProfit),
	}
	if err := s.finance.InsertRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RoundService) publish(ctx context.Context, game *model.Game, round int, result *engine.Result) {
	sales := make([]queue.RoundSettledSale, 0, len(result.SalesDetails))
	for _, d := range result.SalesDetails {
		sales = append(sales, queue.RoundSettledSale{
			PlayerID:    d.PlayerID,
			PlayerName:  d.PlayerName,
			ProductName: d.ProductName,
			Price:       d.Price.String(),
			SoldHigh:    d.SoldHigh,
			SoldLow:     d.SoldLow,
			Revenue:     d.Revenue.String(),
		})
	}
	// Broker failures are logged by the publisher and deliberately ignored.
	_ = queue.PublishRoundSettled(ctx, queue.RoundSettledEvent{
		GameID:         game.ID,
		RoomCode:       game.RoomCode,
		RoundNumber:    round,
		HighTierServed: result.HighTierServed,
		LowTierServed:  result.LowTierServed,
		TotalRevenue:   result.TotalRevenue.String(),
		Sales:          sales,
		SettledAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// Summary returns a settled (or pending) round's customer flow and every
// player's production lines.
func (s *RoundService) Summary(ctx context.Context, gameID uint64, round int) (*model.CustomerFlow, []model.RoundProduction, error) {
	flow, err := s.flows.Get(ctx, gameID, round)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.productions.ListByGameAndRound(ctx, gameID, round)
	if err != nil {
		return nil, nil, err
	}
	return flow, lines, nil
}

// Finances returns a player's per-round ledger.
func (s *RoundService) Finances(ctx context.Context, playerID uint64) ([]model.FinanceRecord, error) {
	return s.finance.ListByPlayer(ctx, playerID)
}
