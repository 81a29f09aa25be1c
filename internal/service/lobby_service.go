package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/iliyamo/teashop-tycoon/internal/model"
	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/rules"
	"github.com/iliyamo/teashop-tycoon/internal/utils"
)

// LobbyService manages game rooms: creation, joining, readiness and the
// transition into round one.
type LobbyService struct {
	games      *repository.GameRepo
	players    *repository.PlayerRepo
	flows      *repository.CustomerFlowRepo
	jwtSecret  string
	sessionTTL int
	bcryptCost int
}

// NewLobbyService constructs a LobbyService.
func NewLobbyService(games *repository.GameRepo, players *repository.PlayerRepo,
	flows *repository.CustomerFlowRepo, jwtSecret string, sessionTTLMin, bcryptCost int) *LobbyService {
	return &LobbyService{
		games:      games,
		players:    players,
		flows:      flows,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTLMin,
		bcryptCost: bcryptCost,
	}
}

// roomCodeAlphabet skips easily confused characters (0/O, 1/I/L).
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func newRoomCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("room code: %w", err)
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf), nil
}

// JoinResult is what a player gets back after creating or joining a room.
type JoinResult struct {
	Game    *model.Game
	Player  *model.Player
	Session utils.SessionToken
}

// CreateRoom opens a new waiting room and seats the creator as its host.
// Password is optional; an empty string leaves the room open.
func (s *LobbyService) CreateRoom(ctx context.Context, name, password, nickname string, maxPlayers int) (*JoinResult, error) {
	if maxPlayers < rules.MinPlayers || maxPlayers > rules.MaxPlayers {
		maxPlayers = rules.MaxPlayers
	}

	var passwordHash *string
	if password != "" {
		h, err := utils.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash room password: %w", err)
		}
		passwordHash = &h
	}

	game := &model.Game{
		Name:         name,
		PasswordHash: passwordHash,
		Status:       model.GameStatusWaiting,
		CurrentRound: 0,
		MaxPlayers:   maxPlayers,
	}

	// A duplicate room code is astronomically unlikely but cheap to retry.
	for attempt := 0; attempt < 3; attempt++ {
		code, err := newRoomCode()
		if err != nil {
			return nil, err
		}
		game.RoomCode = code
		err = s.games.Create(ctx, game)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrConflict) || attempt == 2 {
			return nil, fmt.Errorf("create room: %w", err)
		}
	}

	res, err := s.seatPlayer(ctx, game, nickname)
	if err != nil {
		return nil, err
	}
	if err := s.games.SetHost(ctx, game.ID, res.Player.ID); err != nil {
		return nil, fmt.Errorf("assign host: %w", err)
	}
	hostID := res.Player.ID
	game.HostPlayerID = &hostID
	return res, nil
}

// ListRooms returns open rooms for the lobby browser.
func (s *LobbyService) ListRooms(ctx context.Context) ([]model.Game, error) {
	return s.games.ListWaiting(ctx)
}

// JoinRoom seats a player in an existing waiting room.
func (s *LobbyService) JoinRoom(ctx context.Context, roomCode, password, nickname string) (*JoinResult, error) {
	game, err := s.games.GetByRoomCode(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusWaiting {
		return nil, ErrRoomNotJoinable
	}
	if game.PasswordHash != nil {
		if !utils.CheckPassword(*game.PasswordHash, password) {
			return nil, ErrWrongPassword
		}
	}
	res, err := s.seatPlayer(ctx, game, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoomNotJoinable
		}
		return nil, err
	}
	return res, nil
}

func (s *LobbyService) seatPlayer(ctx context.Context, game *model.Game, nickname string) (*JoinResult, error) {
	player := &model.Player{
		GameID:   game.ID,
		Nickname: nickname,
		Cash:     rules.InitialCash,
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}

	session, err := utils.NewSessionToken(s.jwtSecret, player.ID, game.ID, nickname, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &JoinResult{Game: game, Player: player, Session: session}, nil
}

// SetReady flips the caller's ready flag.
func (s *LobbyService) SetReady(ctx context.Context, playerID uint64, ready bool) error {
	return s.players.SetReady(ctx, playerID, ready)
}

// Start moves the room into round one. Host only; requires the minimum
// head count and every seated player ready. The first round's customer
// flow is seeded immediately so market research has something to reveal.
func (s *LobbyService) Start(ctx context.Context, gameID, playerID uint64) (*model.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.HostPlayerID == nil || *game.HostPlayerID != playerID {
		return nil, ErrNotHost
	}
	ready, total, err := s.players.CountReady(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if total < rules.MinPlayers || ready < total {
		return nil, ErrNotAllReady
	}

	if err := s.games.Start(ctx, gameID); err != nil {
		return nil, err
	}

	entry := rules.CustomerFlowScript[1]
	flow := &model.CustomerFlow{
		GameID:            gameID,
		RoundNumber:       1,
		HighTierCustomers: entry.HighTier,
		LowTierCustomers:  entry.LowTier,
	}
	if err := s.flows.Insert(ctx, flow); err != nil {
		return nil, fmt.Errorf("seed round 1 flow: %w", err)
	}

	return s.games.GetByID(ctx, gameID)
}

// Me returns the calling player's record and stamps their activity.
func (s *LobbyService) Me(ctx context.Context, playerID uint64) (*model.Player, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	_ = s.players.TouchActivity(ctx, playerID)
	return player, nil
}

// State returns the room and its players, for lobby polling and the
// in-game scoreboard.
func (s *LobbyService) State(ctx context.Context, gameID uint64) (*model.Game, []model.Player, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	players, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return game, players, nil
}
