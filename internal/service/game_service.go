package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jmhart/world-conquest/internal/model"
	"github.com/jmhart/world-conquest/internal/repository"
	"github.com/jmhart/world-conquest/pkg/risk"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotWaiting = errors.New("game is not in waiting status")
	ErrGameFull       = errors.New("game already has 6 players")
	ErrNotEnough      = errors.New("need at least 2 players to start")
	ErrNotCreator     = errors.New("only the creator can start the game")
	ErrGameNotActive  = errors.New("game is not in progress")
	ErrAlreadyJoined  = errors.New("already joined this game")
	ErrNotInGame      = errors.New("you are not in this game")
)

// GameService handles game lifecycle operations: lobby, start, teardown.
type GameService struct {
	gameRepo  repository.GameRepository
	stateRepo repository.StateRepository
	userRepo  repository.UserRepository
	cache     repository.GameCache
	broadcast Broadcaster
}

// NewGameService creates a GameService.
func NewGameService(gameRepo repository.GameRepository, stateRepo repository.StateRepository, userRepo repository.UserRepository, cache repository.GameCache, broadcast Broadcaster) *GameService {
	return &GameService{gameRepo: gameRepo, stateRepo: stateRepo, userRepo: userRepo, cache: cache, broadcast: broadcast}
}

// CreateGame creates a new game in "waiting" status. botCount bots join
// immediately; tutorial games are created with a single easy bot opponent.
func (s *GameService) CreateGame(ctx context.Context, name, creatorID, mode, turnDur, botDifficulty string, botCount int) (*model.Game, error) {
	turnDur = toPgInterval(turnDur, "24 hours")
	if botDifficulty == "" {
		botDifficulty = "easy"
	}
	if mode != "tutorial" {
		mode = "standard"
	}
	if mode == "tutorial" {
		botCount = 1
		botDifficulty = "easy"
	}
	if botCount < 0 {
		botCount = 0
	}
	if botCount > risk.MaxPlayers-1 {
		botCount = risk.MaxPlayers - 1
	}

	game, err := s.gameRepo.Create(ctx, name, creatorID, mode, turnDur)
	if err != nil {
		return nil, err
	}

	if err := s.gameRepo.JoinGame(ctx, game.ID, creatorID); err != nil {
		return nil, err
	}

	for i := 1; i <= botCount; i++ {
		providerID := fmt.Sprintf("bot-%d", i)
		displayName := fmt.Sprintf("Bot %d", i)
		botUser, err := s.userRepo.Upsert(ctx, "bot", providerID, displayName, "")
		if err != nil {
			return nil, fmt.Errorf("create bot user %d: %w", i, err)
		}
		if err := s.gameRepo.JoinGameAsBot(ctx, game.ID, botUser.ID, botDifficulty); err != nil {
			return nil, fmt.Errorf("join bot %d: %w", i, err)
		}
	}

	return s.gameRepo.FindByID(ctx, game.ID)
}

// JoinGame adds a player to a waiting game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}

	for _, p := range game.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}

	count, err := s.gameRepo.PlayerCount(ctx, gameID)
	if err != nil {
		return err
	}
	if count >= risk.MaxPlayers {
		return ErrGameFull
	}

	if err := s.gameRepo.JoinGame(ctx, gameID, userID); err != nil {
		return err
	}
	s.broadcast.BroadcastGameEvent(gameID, "player_joined", map[string]string{"user_id": userID})
	return nil
}

// StartGame seats the players, deals the board, and moves the game into
// setup. Only the creator can start.
func (s *GameService) StartGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "waiting" {
		return nil, ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if len(game.Players) < risk.MinPlayers {
		return nil, ErrNotEnough
	}

	playerIDs := make([]string, len(game.Players))
	for i, p := range game.Players {
		playerIDs[i] = p.UserID
	}

	gs, err := risk.NewGame(risk.StandardBoard(), playerIDs, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return nil, fmt.Errorf("deal game: %w", err)
	}

	seats := make(map[string]model.GamePlayer, len(gs.Players))
	for _, p := range gs.Players {
		seats[p.ID] = model.GamePlayer{Color: string(p.Color), TurnOrder: p.Order}
	}
	if err := s.gameRepo.AssignSeats(ctx, gameID, seats); err != nil {
		return nil, err
	}
	if err := s.stateRepo.Init(ctx, gameID, gs); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(gs); err == nil {
		_ = s.cache.SetGameState(ctx, gameID, data)
	}
	_ = s.cache.SetTurnTimer(ctx, gameID, time.Now().Add(ParseDuration(game.TurnDuration)))

	s.broadcast.BroadcastGameEvent(gameID, "game_started", gs)
	return s.gameRepo.FindByID(ctx, gameID)
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// DeleteGame removes a waiting game. Only the game creator can delete a game.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return ErrNotCreator
	}
	return s.gameRepo.Delete(ctx, gameID)
}

// StopGame ends a game early with no winner. Only the game creator can
// stop a game.
func (s *GameService) StopGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "setup" && game.Status != "playing" {
		return nil, ErrGameNotActive
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if err := s.gameRepo.SetFinished(ctx, gameID, ""); err != nil {
		return nil, err
	}
	_ = s.cache.DeleteGameData(ctx, gameID)
	s.broadcast.BroadcastGameEvent(gameID, "game_ended", map[string]string{"winner": ""})
	return s.gameRepo.FindByID(ctx, gameID)
}

// ListGames returns open games or games the user is in.
func (s *GameService) ListGames(ctx context.Context, userID string, filter string) ([]model.Game, error) {
	switch filter {
	case "my":
		return s.gameRepo.ListByUser(ctx, userID)
	default:
		return s.gameRepo.ListOpen(ctx)
	}
}

// toPgInterval converts Go-style duration strings (e.g. "5m", "1h") to
// PostgreSQL interval format (e.g. "5 minutes", "1 hours"). Returns
// defaultVal if input is empty.
func toPgInterval(s, defaultVal string) string {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%d seconds", totalSeconds)
	}
	return fmt.Sprintf("%d minutes", totalSeconds/60)
}

// ParseDuration converts Postgres interval strings like "24:00:00" or Go
// duration strings like "5m" to time.Duration.
func ParseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err == nil {
		return d
	}
	// Try HH:MM:SS format from PostgreSQL
	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		h, e1 := strconv.Atoi(parts[0])
		m, e2 := strconv.Atoi(parts[1])
		sec, e3 := strconv.Atoi(parts[2])
		if e1 == nil && e2 == nil && e3 == nil {
			return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
		}
	}
	return 24 * time.Hour
}
