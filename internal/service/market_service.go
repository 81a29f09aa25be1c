package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
)

// MarketService covers the paid market moves: advertisements and market
// research.
type MarketService struct {
	market   *repository.MarketRepo
	products *repository.ProductRepo
	players  *repository.PlayerRepo
	games    *repository.GameRepo
	flows    *repository.CustomerFlowRepo
}

// NewMarketService constructs a MarketService.
func NewMarketService(market *repository.MarketRepo, products *repository.ProductRepo,
	players *repository.PlayerRepo, games *repository.GameRepo, flows *repository.CustomerFlowRepo) *MarketService {
	return &MarketService{market: market, products: products, players: players, games: games, flows: flows}
}

// Advertise buys an advertisement for the round. The die roll becomes the
// ad score applied to all of the player's unlocked products in the next
// settlement. One advertisement per player per round; the fee is refunded
// if the duplicate check fires after payment.
func (s *MarketService) Advertise(ctx context.Context, playerID, gameID uint64, dice int) (*model.MarketAction, error) {
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

	if err := s.players.DebitCash(ctx, playerID, rules.AdvertisementCost); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	result := dice
	action := &model.MarketAction{
		PlayerID:    playerID,
		RoundNumber: game.CurrentRound,
		ActionType:  model.MarketActionAd,
		Cost:        rules.AdvertisementCost,
		ResultValue: &result,
	}
	if err := s.market.InsertAction(ctx, action); err != nil {
		_ = s.players.CreditCash(ctx, playerID, rules.AdvertisementCost)
		return nil, err
	}

	if err := s.products.SetAdScore(ctx, playerID, dice); err != nil {
		return nil, err
	}
	return action, nil
}

// ResearchReveal is the customer flow preview a market research buys.
type ResearchReveal struct {
	Action *model.MarketAction `json:"action"`
	Flow   *model.CustomerFlow `json:"flow"`
}

// MarketResearch buys a look at the current round's customer flow before
// settlement, generating it from the script if nobody has yet.
func (s *MarketService) MarketResearch(ctx context.Context, playerID, gameID uint64) (*ResearchReveal, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusInProgress {
		return nil, ErrGameNotInProgress
	}

	if err := s.players.DebitCash(ctx, playerID, rules.MarketResearchCost); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	action := &model.MarketAction{
		PlayerID:    playerID,
		RoundNumber: game.CurrentRound,
		ActionType:  model.MarketActionResearch,
		Cost:        rules.MarketResearchCost,
	}
	if err := s.market.InsertAction(ctx, action); err != nil {
		_ = s.players.CreditCash(ctx, playerID, rules.MarketResearchCost)
		return nil, err
	}

	entry := rules.CustomerFlowScript[game.CurrentRound]
	flow := &model.CustomerFlow{
		GameID:            gameID,
		RoundNumber:       game.CurrentRound,
		HighTierCustomers: entry.HighTier,
		LowTierCustomers:  entry.LowTier,
	}
	if err := s.flows.Insert(ctx, flow); err != nil {
		return nil, err
	}
	return &ResearchReveal{Action: action, Flow: flow}, nil
}

// Actions returns the caller's market action history.
func (s *MarketService) Actions(ctx context.Context, playerID uint64) ([]model.MarketAction, error) {
	return s.market.ListActionsByPlayer(ctx, playerID)
}
