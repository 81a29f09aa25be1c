package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// LobbyHandler bundles dependencies for room endpoints.
type LobbyHandler struct {
	Lobby *service.LobbyService
}

func NewLobbyHandler(lobby *service.LobbyService) *LobbyHandler {
	return &LobbyHandler{Lobby: lobby}
}

// ----- DTOs -----

type createRoomReq struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	Nickname   string `json:"nickname"`
	MaxPlayers int    `json:"max_players"`
}
type joinRoomReq struct {
	RoomCode string `json:"room_code"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}
type readyReq struct {
	Ready bool `json:"ready"`
}

type sessionPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type playerPart struct {
	ID           uint64 `json:"id"`
	Nickname     string `json:"nickname"`
	PlayerNumber int    `json:"player_number"`
	TurnOrder    int    `json:"turn_order"`
	Cash         string `json:"cash"`
	IsReady      bool   `json:"is_ready"`
	IsActive     bool   `json:"is_active"`
}
type gamePart struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	RoomCode     string `json:"room_code"`
	Status       string `json:"status"`
	CurrentRound int    `json:"current_round"`
	MaxPlayers   int    `json:"max_players"`
	HasPassword  bool   `json:"has_password"`
}
type joinResp struct {
	Game    gamePart    `json:"game"`
	Player  playerPart  `json:"player"`
	Session sessionPart `json:"session"`
}

func toGamePart(g *model.Game) gamePart {
	return gamePart{
		ID:           g.ID,
		Name:         g.Name,
		RoomCode:     g.RoomCode,
		Status:       g.Status,
		CurrentRound: g.CurrentRound,
		MaxPlayers:   g.MaxPlayers,
		HasPassword:  g.PasswordHash != nil,
	}
}

func toPlayerPart(p *model.Player) playerPart {
	return playerPart{
		ID:           p.ID,
		Nickname:     p.Nickname,
		PlayerNumber: p.PlayerNumber,
		TurnOrder:    p.TurnOrder,
		Cash:         p.Cash.String(),
		IsReady:      p.IsReady,
		IsActive:     p.IsActive,
	}
}

// CreateRoom opens a room and seats the caller as host.
func (h *LobbyHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Nickname == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nickname required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Lobby.CreateRoom(ctx, strings.TrimSpace(req.Name), req.Password, req.Nickname, req.MaxPlayers)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, joinResp{
		Game:    toGamePart(res.Game),
		Player:  toPlayerPart(res.Player),
		Session: sessionPart{Token: res.Session.Token, Expires: res.Session.Exp},
	})
}

// ListRooms returns open rooms for the lobby browser.
func (h *LobbyHandler) ListRooms(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	games, err := h.Lobby.ListRooms(ctx)
	if err != nil {
		return respondError(c, err)
	}
	rooms := make([]gamePart, 0, len(games))
	for i := range games {
		rooms = append(rooms, toGamePart(&games[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// JoinRoom seats the caller in an existing waiting room.
func (h *LobbyHandler) JoinRoom(c echo.Context) error {
	var req joinRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomCode = strings.ToUpper(strings.TrimSpace(req.RoomCode))
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.RoomCode == "" || req.Nickname == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_code/nickname required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Lobby.JoinRoom(ctx, req.RoomCode, req.Password, req.Nickname)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, joinResp{
		Game:    toGamePart(res.Game),
		Player:  toPlayerPart(res.Player),
		Session: sessionPart{Token: res.Session.Token, Expires: res.Session.Exp},
	})
}

// SetReady flips the caller's lobby ready flag.
func (h *LobbyHandler) SetReady(c echo.Context) error {
	var req readyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Lobby.SetReady(ctx, playerID, req.Ready); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ready": req.Ready})
}

// Start moves the room into round one. Host only.
func (h *LobbyHandler) Start(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	game, err := h.Lobby.Start(ctx, gameID, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"game": toGamePart(game)})
}

// State returns the room and its players for polling.
func (h *LobbyHandler) State(c echo.Context) error {
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	game, players, err := h.Lobby.State(ctx, gameID)
	if err != nil {
		return respondError(c, err)
	}
	roster := make([]playerPart, 0, len(players))
	for i := range players {
		roster = append(roster, toPlayerPart(&players[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"game": toGamePart(game), "players": roster})
}
