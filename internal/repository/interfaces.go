package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmhart/world-conquest/internal/model"
	"github.com/jmhart/world-conquest/pkg/risk"
)

// ErrConflict is returned when a compare-and-swap write loses the race: the
// persisted state version changed between the orchestrator's read and its
// write. The orchestrator re-fetches and retries; nothing else does.
var ErrConflict = errors.New("game state changed since read")

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game and player data operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID, mode, turnDur string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListOpen(ctx context.Context) ([]model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	JoinGame(ctx context.Context, gameID, userID string) error
	JoinGameAsBot(ctx context.Context, gameID, userID, difficulty string) error
	PlayerCount(ctx context.Context, gameID string) (int, error)
	AssignSeats(ctx context.Context, gameID string, seats map[string]model.GamePlayer) error
	SetStarted(ctx context.Context, gameID string) error
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// StateRepository persists the authoritative board state of a game across
// games, game_players, and game_territories rows. Every write is a single
// transaction guarded by the games.version column: writes carry the version
// the caller read, and lose with ErrConflict when it has moved on.
type StateRepository interface {
	// Init writes the freshly dealt setup state for a game.
	Init(ctx context.Context, gameID string, gs *risk.GameState) error

	// Load returns the current state snapshot and its version.
	Load(ctx context.Context, gameID string) (*risk.GameState, int64, error)

	// Save writes a full snapshot under compare-and-swap. Used for moves
	// that touch arbitrary parts of the state (fortify, skip).
	Save(ctx context.Context, gameID string, gs *risk.GameState, version int64) error

	// PlaceArmiesAtomic applies a deploy: the territory's army count and
	// the player's armies-to-place counter change together or not at all.
	PlaceArmiesAtomic(ctx context.Context, gameID, playerID, territoryID string, amount int, gs *risk.GameState, version int64) error

	// AttackAtomic applies one resolved combat round: both territories,
	// any ownership transfer, defender elimination, and the win check are
	// a single transaction.
	AttackAtomic(ctx context.Context, gameID, fromID, toID string, outcome risk.BattleOutcome, gs *risk.GameState, version int64) error

	// CheckAndTransitionSetupAtomic flips a setup game to playing exactly
	// once, under a row lock, when every player's initial allotment has
	// been placed. Returns whether this call performed the transition.
	CheckAndTransitionSetupAtomic(ctx context.Context, gameID string, gs *risk.GameState) (bool, error)
}

// MoveRepository records the history of applied moves.
type MoveRepository interface {
	Record(ctx context.Context, gameID, userID string, turn int, mv risk.Move, outcome *risk.BattleOutcome) (*model.GameMove, error)
	ListByGame(ctx context.Context, gameID string, limit int) ([]model.GameMove, error)
}

// MessageRepository defines chat message operations.
type MessageRepository interface {
	Create(ctx context.Context, gameID, senderID, content string) (*model.Message, error)
	ListByGame(ctx context.Context, gameID string) ([]model.Message, error)
}

// GameCache defines live game state operations (Redis).
type GameCache interface {
	SetGameState(ctx context.Context, gameID string, state json.RawMessage) error
	GetGameState(ctx context.Context, gameID string) (json.RawMessage, error)
	InvalidateGameState(ctx context.Context, gameID string) error
	SetTurnTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearTurnTimer(ctx context.Context, gameID string) error
	MarkOnline(ctx context.Context, gameID, userID string) error
	MarkOffline(ctx context.Context, gameID, userID string) error
	OnlineUsers(ctx context.Context, gameID string) ([]string, error)
	DeleteGameData(ctx context.Context, gameID string) error
}
