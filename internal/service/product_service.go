package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/teashop-tycoon/internal/engine"
	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
)

// ProductService covers the recipe catalog, research attempts and the
// player's unlocked product list.
type ProductService struct {
	recipes     *repository.RecipeRepo
	products    *repository.ProductRepo
	players     *repository.PlayerRepo
	games       *repository.GameRepo
	market      *repository.MarketRepo
	settlements *repository.SettlementRepo
}

// NewProductService constructs a ProductService.
func NewProductService(recipes *repository.RecipeRepo, products *repository.ProductRepo,
	players *repository.PlayerRepo, games *repository.GameRepo,
	market *repository.MarketRepo, settlements *repository.SettlementRepo) *ProductService {
	return &ProductService{
		recipes:     recipes,
		products:    products,
		players:     players,
		games:       games,
		market:      market,
		settlements: settlements,
	}
}

// Catalog returns the shared recipe catalog.
func (s *ProductService) Catalog(ctx context.Context) ([]model.ProductRecipe, error) {
	return s.recipes.List(ctx)
}

// ResearchOutcome reports one research attempt back to the player.
type ResearchOutcome struct {
	Log     *model.ResearchLog   `json:"log"`
	Success bool                 `json:"success"`
	Product *model.PlayerProduct `json:"product,omitempty"`
}

// Research spends the research fee on an attempt to unlock a recipe. The
// die is rolled at the table and entered by the player; success means
// dice >= recipe difficulty. The fee is charged win or lose, and every
// attempt is logged.
func (s *ProductService) Research(ctx context.Context, playerID, gameID, recipeID uint64, dice int) (*ResearchOutcome, error) {
	if err := rules.ValidateDice(dice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusInProgress {
		return nil, ErrGameNotInProgress
	}
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	// Reject an attempt on an already unlocked recipe before charging.
	if _, err := s.products.GetByPlayerAndRecipe(ctx, playerID, recipeID); err == nil {
		return nil, fmt.Errorf("recipe %q already unlocked: %w", recipe.Name, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.players.DebitCash(ctx, playerID, rules.ProductResearchCost); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	success := rules.ResearchSucceeds(dice, recipe.Difficulty)
	logEntry := &model.ResearchLog{
		PlayerID:    playerID,
		RecipeID:    recipeID,
		RoundNumber: game.CurrentRound,
		DiceResult:  dice,
		Success:     success,
		Cost:        rules.ProductResearchCost,
	}
	if err := s.market.InsertResearchLog(ctx, logEntry); err != nil {
		return nil, err
	}

	outcome := &ResearchOutcome{Log: logEntry, Success: success}
	if success {
		product, err := s.products.Unlock(ctx, playerID, recipeID, game.CurrentRound)
		if err != nil {
			return nil, err
		}
		outcome.Product = product
	}
	return outcome, nil
}

// ProductView is one unlocked product with its live reputation preview,
// scored exactly the way the next settlement will score it.
type ProductView struct {
	Product    model.PlayerProduct `json:"product"`
	RecipeName string              `json:"recipe_name"`
	Reputation float64             `json:"reputation"`
}

// UnlockedProducts lists the caller's products with reputation previews.
func (s *ProductService) UnlockedProducts(ctx context.Context, playerID, gameID uint64) ([]ProductView, error) {
	products, err := s.products.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []ProductView{}, nil
	}
	unlocked, err := s.settlements.UnlockedCounts(ctx, gameID)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		recipe, err := s.recipes.GetByID(ctx, p.RecipeID)
		if err != nil {
			return nil, err
		}
		count := unlocked[p.RecipeID]
		if count < 1 {
			count = 1
		}
		views = append(views, ProductView{
			Product:    p,
			RecipeName: recipe.Name,
			Reputation: engine.ReputationScore(engine.ScoreInput{
				BaseFanRate:         recipe.BaseFanRate.InexactFloat64(),
				UnlockedPlayerCount: count,
				TotalSold:           p.TotalSold,
				AdScore:             p.CurrentAdScore,
			}),
		})
	}
	return views, nil
}
