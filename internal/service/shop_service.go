package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
)

// ShopService manages a player's storefront and staff.
type ShopService struct {
	shops   *repository.ShopRepo
	players *repository.PlayerRepo
	games   *repository.GameRepo
}

// NewShopService constructs a ShopService.
func NewShopService(shops *repository.ShopRepo, players *repository.PlayerRepo, games *repository.GameRepo) *ShopService {
	return &ShopService{shops: shops, players: players, games: games}
}

// Open creates the player's shop at the chosen location. The rent is part
// of the location deal and is charged every round at settlement, not
// here. Each player gets one shop for the whole game.
func (s *ShopService) Open(ctx context.Context, playerID, gameID uint64, location string, rent decimal.Decimal) (*model.Shop, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalid)
	}
	if rent.IsNegative() {
		return nil, fmt.Errorf("%w: rent cannot be negative", ErrInvalid)
	}
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusInProgress {
		return nil, ErrGameNotInProgress
	}

	shop := &model.Shop{
		PlayerID:        playerID,
		Location:        location,
		Rent:            rent,
		DecorationLevel: 1,
		MaxEmployees:    rules.MaxEmployeesByLevel[1],
		CreatedRound:    game.CurrentRound,
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// Info returns the shop together with its roster and total productivity.
type Info struct {
	Shop              *model.Shop      `json:"shop"`
	Employees         []model.Employee `json:"employees"`
	TotalProductivity int              `json:"total_productivity"`
}

// GetInfo loads the caller's shop, roster and productivity total.
func (s *ShopService) GetInfo(ctx context.Context, playerID uint64) (*Info, error) {
	shop, err := s.shops.GetByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	employees, err := s.shops.ListEmployees(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, e := range employees {
		total += e.Productivity
	}
	return &Info{Shop: shop, Employees: employees, TotalProductivity: total}, nil
}

// UpgradeDecoration raises the shop to the next decoration level, paying
// the level's cost and lifting the employee cap.
func (s *ShopService) UpgradeDecoration(ctx context.Context, playerID uint64) (*model.Shop, error) {
	shop, err := s.shops.GetByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	next := shop.DecorationLevel + 1
	cost, ok := rules.DecorationCosts[next]
	if !ok {
		return nil, fmt.Errorf("%w: shop is already at the highest decoration level", ErrInvalid)
	}

	if err := s.players.DebitCash(ctx, playerID, cost); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	if err := s.shops.UpgradeDecoration(ctx, shop.ID, shop.DecorationLevel, next, rules.MaxEmployeesByLevel[next]); err != nil {
		// Upgrade raced with another request; give the money back.
		_ = s.players.CreditCash(ctx, playerID, cost)
		return nil, err
	}
	return s.shops.GetByPlayer(ctx, playerID)
}

// Hire adds an employee to the caller's shop, enforcing the decoration
// level's head count cap.
func (s *ShopService) Hire(ctx context.Context, playerID uint64, name string, salary decimal.Decimal, productivity int) (*model.Employee, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: employee name is required", ErrInvalid)
	}
	if productivity <= 0 {
		return nil, fmt.Errorf("%w: productivity must be positive", ErrInvalid)
	}
	if salary.IsNegative() {
		return nil, fmt.Errorf("%w: salary cannot be negative", ErrInvalid)
	}

	shop, err := s.shops.GetByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	count, err := s.shops.CountActiveEmployees(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	if count >= shop.MaxEmployees {
		return nil, fmt.Errorf("shop staff is full (%d/%d): %w", count, shop.MaxEmployees, repository.ErrConflict)
	}

	game, err := s.gameOf(ctx, playerID)
	if err != nil {
		return nil, err
	}

	employee := &model.Employee{
		ShopID:       shop.ID,
		Name:         name,
		Salary:       salary,
		Productivity: productivity,
		HiredRound:   game.CurrentRound,
	}
	if err := s.shops.HireEmployee(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Fire deactivates one of the caller's employees.
func (s *ShopService) Fire(ctx context.Context, playerID, employeeID uint64) error {
	shop, err := s.shops.GetByPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	employees, err := s.shops.ListEmployees(ctx, shop.ID)
	if err != nil {
		return err
	}
	for _, e := range employees {
		if e.ID == employeeID {
			return s.shops.FireEmployee(ctx, employeeID)
		}
	}
	return repository.ErrForbidden
}

func (s *ShopService) gameOf(ctx context.Context, playerID uint64) (*model.Game, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.games.GetByID(ctx, player.GameID)
}
