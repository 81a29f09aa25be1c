// Package router registers the HTTP routes of the game API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/teashop-tycoon/internal/config"
	"github.com/iliyamo/teashop-tycoon/internal/handler"
	"github.com/iliyamo/teashop-tycoon/internal/middleware"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Lobby      *handler.LobbyHandler
	Player     *handler.PlayerHandler
	Shop       *handler.ShopHandler
	Product    *handler.ProductHandler
	Production *handler.ProductionHandler
	Market     *handler.MarketHandler
	Round      *handler.RoundHandler
}

// Register wires all routes onto the Echo instance. The lobby endpoints
// are open (rate-limited, since they are the only anonymous writes);
// everything in-game requires a player session token. Round summaries are
// served through the response cache because they never change once a
// round has settled.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Lobby: no session required.
	lobby := e.Group("/v1/lobby", limiter)
	lobby.POST("/rooms", h.Lobby.CreateRoom)
	lobby.GET("/rooms", h.Lobby.ListRooms)
	lobby.POST("/join", h.Lobby.JoinRoom)

	// In-game: session token required.
	game := e.Group("/v1", middleware.SessionAuth(jwtSecret), middleware.RequirePlayer())
	game.GET("/me", h.Player.Me)
	game.POST("/ready", h.Lobby.SetReady)
	game.POST("/start", h.Lobby.Start)
	game.GET("/state", h.Lobby.State)

	game.POST("/shop", h.Shop.Open)
	game.GET("/shop", h.Shop.Info)
	game.POST("/shop/decoration", h.Shop.UpgradeDecoration)
	game.POST("/shop/employees", h.Shop.Hire)
	game.DELETE("/shop/employees/:id", h.Shop.Fire)

	game.GET("/products/catalog", h.Product.Catalog)
	game.POST("/products/research", h.Product.Research)
	game.GET("/products", h.Product.List)

	game.POST("/production", h.Production.Submit)
	game.GET("/production", h.Production.Current)

	game.POST("/market/advertisement", h.Market.Advertise)
	game.POST("/market/research", h.Market.Research)
	game.GET("/market/actions", h.Market.Actions)

	game.POST("/rounds/settle", h.Round.Settle)
	game.GET("/rounds/:round/summary", h.Round.Summary, cache)
	game.GET("/finance", h.Round.Finances)
}
