package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/config"
	"github.com/iliyamo/teashop-tycoon/internal/database"
	"github.com/iliyamo/teashop-tycoon/internal/handler"
	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/queue"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/router"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories.
	games := repository.NewGameRepo(db)
	players := repository.NewPlayerRepo(db)
	recipes := repository.NewRecipeRepo(db)
	products := repository.NewProductRepo(db)
	productions := repository.NewProductionRepo(db)
	flows := repository.NewCustomerFlowRepo(db)
	market := repository.NewMarketRepo(db)
	shops := repository.NewShopRepo(db)
	finance := repository.NewFinanceRepo(db)
	settlements := repository.NewSettlementRepo(db)

	if err := recipes.Seed(context.Background(), catalog()); err != nil {
		log.Fatalf("seed recipes: %v", err)
	}

	// Services.
	lobby := service.NewLobbyService(games, players, flows, cfg.JWTSecret, cfg.SessionTTLMin, cfg.BcryptCost)
	shopSvc := service.NewShopService(shops, players, games)
	productSvc := service.NewProductService(recipes, products, players, games, market, settlements)
	productionSvc := service.NewProductionService(productions, products, recipes, shops, players, games, finance)
	marketSvc := service.NewMarketService(market, products, players, games, flows)
	roundSvc := service.NewRoundService(games, players, productions, products, flows, shops, market, finance, settlements, cfg.SettlementSeed)

	// Settlement event consumer; reconnects on its own.
	go func() {
		if err := queue.StartSettlementConsumer(); err != nil {
			log.Printf("settlement consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Handlers{
		Lobby:      handler.NewLobbyHandler(lobby),
		Player:     handler.NewPlayerHandler(lobby),
		Shop:       handler.NewShopHandler(shopSvc),
		Product:    handler.NewProductHandler(productSvc),
		Production: handler.NewProductionHandler(productionSvc),
		Market:     handler.NewMarketHandler(marketSvc),
		Round:      handler.NewRoundHandler(roundSvc),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// catalog converts the rules seed table into recipe rows.
func catalog() []model.ProductRecipe {
	out := make([]model.ProductRecipe, 0, len(rules.RecipeCatalog))
	for _, seed := range rules.RecipeCatalog {
		out = append(out, model.ProductRecipe{
			Name:          seed.Name,
			Difficulty:    seed.Difficulty,
			BaseFanRate:   seed.BaseFanRate,
			CostPerUnit:   seed.CostPerUnit,
			MaterialsJSON: seed.MaterialsJSONString(),
			IsActive:      true,
		})
	}
	return out
}
