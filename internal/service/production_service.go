package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/engine"
	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
)

// ProductionService turns a player's plan for the round into stored
// production lines and the material purchase that pays for them.
type ProductionService struct {
	productions *repository.ProductionRepo
	products    *repository.ProductRepo
	recipes     *repository.RecipeRepo
	shops       *repository.ShopRepo
	players     *repository.PlayerRepo
	games       *repository.GameRepo
	finance     *repository.FinanceRepo
}

// NewProductionService constructs a ProductionService.
func NewProductionService(productions *repository.ProductionRepo, products *repository.ProductRepo,
	recipes *repository.RecipeRepo, shops *repository.ShopRepo, players *repository.PlayerRepo,
	games *repository.GameRepo, finance *repository.FinanceRepo) *ProductionService {
	return &ProductionService{
		productions: productions,
		products:    products,
		recipes:     recipes,
		shops:       shops,
		players:     players,
		games:       games,
		finance:     finance,
	}
}

// PlanLine is one product entry of a submitted plan. Productivity is the
// number of units to produce.
type PlanLine struct {
	ProductID    uint64          `json:"product_id"`
	Productivity int             `json:"productivity"`
	Price        decimal.Decimal `json:"price"`
}

// PlanResult reports a stored plan back to the player.
type PlanResult struct {
	Lines        []model.RoundProduction `json:"lines"`
	MaterialCost engine.CostSummary      `json:"material_cost"`
}

// SubmitPlan validates and stores the caller's production plan for the
// current round, replacing any earlier submission. Validation covers
// ownership, unlock state, the shop productivity cap, the price range and
// step, and the price lock window. Materials for the whole plan are
// bought in one bulk purchase at discount-tiered prices; an earlier
// submission's purchase is refunded first so revising a plan never
// double-charges.
func (s *ProductionService) SubmitPlan(ctx context.Context, playerID, gameID uint64, lines []PlanLine) (*PlanResult, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: plan needs at least one line", ErrInvalid)
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusInProgress {
		return nil, ErrGameNotInProgress
	}
	round := game.CurrentRound

	shop, err := s.shops.GetByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	capacity, err := s.shops.TotalProductivity(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	allocated := 0
	seen := make(map[uint64]bool, len(lines))
	needs := make(map[string]int)
	storedLines := make([]model.RoundProduction, 0, len(lines))
	priceChanges := make(map[uint64]decimal.Decimal)

	for _, line := range lines {
		if line.Productivity <= 0 {
			return nil, fmt.Errorf("%w: productivity must be positive for product %d", ErrInvalid, line.ProductID)
		}
		if seen[line.ProductID] {
			return nil, fmt.Errorf("%w: product %d appears twice in the plan", ErrInvalid, line.ProductID)
		}
		seen[line.ProductID] = true
		allocated += line.Productivity

		if err := rules.ValidatePrice(line.Price); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.PlayerID != playerID {
			return nil, repository.ErrForbidden
		}
		if !product.IsUnlocked {
			return nil, fmt.Errorf("product %d is not unlocked: %w", line.ProductID, repository.ErrForbidden)
		}

		// Price lock: once changed, a price holds for PriceLockRounds rounds.
		if product.CurrentPrice != nil && !product.CurrentPrice.Equal(line.Price) {
			if round-product.LastPriceChangeRound < rules.PriceLockRounds {
				return nil, ErrPriceLocked
			}
			priceChanges[product.ID] = line.Price
		}
		if product.CurrentPrice == nil {
			priceChanges[product.ID] = line.Price
		}

		recipe, err := s.recipes.GetByID(ctx, product.RecipeID)
		if err != nil {
			return nil, err
		}
		materials, err := parseMaterials(recipe.MaterialsJSON)
		if err != nil {
			return nil, fmt.Errorf("recipe %q materials: %w", recipe.Name, err)
		}
		for material, perUnit := range materials {
			needs[material] += perUnit * line.Productivity
		}

		storedLines = append(storedLines, model.RoundProduction{
			PlayerID:              playerID,
			RoundNumber:           round,
			ProductID:             line.ProductID,
			AllocatedProductivity: line.Productivity,
			Price:                 line.Price,
			ProducedQuantity:      line.Productivity,
		})
	}

	if allocated > capacity {
		return nil, fmt.Errorf("%w: allocated %d, capacity %d", ErrProductivityExceeded, allocated, capacity)
	}

	quote := engine.MaterialCosts(needs, rules.MaterialBasePrices)

	// Refund the previous submission's materials before charging the new
	// plan, so the net effect is always exactly one purchase per round.
	previous, err := s.finance.PurchasesForRound(ctx, playerID, round)
	if err != nil {
		return nil, err
	}
	refund := decimal.Zero
	for _, p := range previous {
		refund = refund.Add(p.TotalCost)
	}

	charge := quote.TotalCost.Sub(refund)
	if charge.IsPositive() {
		if err := s.players.DebitCash(ctx, playerID, charge); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrInsufficientFunds
			}
			return nil, err
		}
	} else if charge.IsNegative() {
		if err := s.players.CreditCash(ctx, playerID, charge.Neg()); err != nil {
			return nil, err
		}
	}

	if err := s.finance.DeletePurchasesForRound(ctx, playerID, round); err != nil {
		return nil, err
	}
	purchases := make([]model.MaterialPurchase, 0, len(quote.Materials))
	for material, cost := range quote.Materials {
		purchases = append(purchases, model.MaterialPurchase{
			PlayerID:     playerID,
			RoundNumber:  round,
			MaterialType: material,
			Quantity:     cost.Quantity,
			UnitPrice:    cost.UnitPrice,
			TotalCost:    cost.Total,
		})
	}
	if err := s.finance.InsertPurchases(ctx, purchases); err != nil {
		return nil, err
	}

	if err := s.productions.ReplacePlan(ctx, playerID, round, storedLines); err != nil {
		return nil, err
	}
	for productID, price := range priceChanges {
		if err := s.products.UpdatePrice(ctx, productID, price, round); err != nil {
			return nil, err
		}
	}

	stored, err := s.productions.ListByPlayerAndRound(ctx, playerID, round)
	if err != nil {
		return nil, err
	}
	return &PlanResult{Lines: stored, MaterialCost: quote}, nil
}

// CurrentPlan returns the caller's stored plan for the current round.
func (s *ProductionService) CurrentPlan(ctx context.Context, playerID, gameID uint64) ([]model.RoundProduction, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.productions.ListByPlayerAndRound(ctx, playerID, game.CurrentRound)
}

// parseMaterials decodes a recipe's material composition.
func parseMaterials(materialsJSON string) (map[string]int, error) {
	if materialsJSON == "" {
		return map[string]int{}, nil
	}
	var materials map[string]int
	if err := json.Unmarshal([]byte(materialsJSON), &materials); err != nil {
		return nil, err
	}
	return materials, nil
}
