package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jmhart/world-conquest/internal/bot"
	"github.com/jmhart/world-conquest/internal/model"
	"github.com/jmhart/world-conquest/internal/repository"
	"github.com/jmhart/world-conquest/pkg/risk"
)

var ErrTutorialDone = errors.New("tutorial already complete")

// conflictRetries bounds how many times a move is re-validated and re-applied
// after losing the version race to a concurrent writer.
const conflictRetries = 3

// maxBotMoves caps one bot turn chain so a strategy bug can never spin a
// goroutine forever.
const maxBotMoves = 500

// MoveService is the single write path for board state. It loads the
// current snapshot, gates and validates the move, applies it through the
// rules engine, and persists the result under compare-and-swap. Everything
// else (cache, history, broadcasts, bot turns, timers) hangs off a
// successful write.
type MoveService struct {
	gameRepo  repository.GameRepository
	stateRepo repository.StateRepository
	moveRepo  repository.MoveRepository
	cache     repository.GameCache
	broadcast Broadcaster

	board  *risk.Board
	roller risk.Roller

	// tutorials tracks per-game tutorial progress. This is presentation
	// state: it gates what the tutorial player may do next but is not part
	// of the persisted board state, so a restart simply restarts the
	// overlay at its current board position.
	tutorials sync.Map // gameID -> *risk.Tutorial

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewMoveService creates a MoveService. roller may be nil, in which case
// combat uses crypto/rand dice.
func NewMoveService(gameRepo repository.GameRepository, stateRepo repository.StateRepository, moveRepo repository.MoveRepository, cache repository.GameCache, broadcast Broadcaster, roller risk.Roller) *MoveService {
	if broadcast == nil {
		broadcast = NoopBroadcaster{}
	}
	if roller == nil {
		roller = risk.CryptoRoller{}
	}
	return &MoveService{
		gameRepo:  gameRepo,
		stateRepo: stateRepo,
		moveRepo:  moveRepo,
		cache:     cache,
		broadcast: broadcast,
		board:     risk.StandardBoard(),
		roller:    roller,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SubmitMove validates and applies one move for a player. On success it
// returns the new state and, for attacks, the battle outcome.
func (s *MoveService) SubmitMove(ctx context.Context, gameID, userID string, mv risk.Move) (*risk.GameState, *risk.BattleOutcome, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil {
		return nil, nil, ErrGameNotFound
	}
	if game.Status != "setup" && game.Status != "playing" {
		return nil, nil, ErrGameNotActive
	}
	if mv.Player != userID {
		return nil, nil, ErrNotInGame
	}

	// Tutorial games gate the human's moves through the overlay; bot
	// replies are never gated.
	if game.Mode == "tutorial" && !isBot(game, userID) {
		tut := s.tutorial(gameID)
		if err := tut.Gate(mv); err != nil {
			return nil, nil, err
		}
	}

	next, outcome, err := s.applyAndPersist(ctx, game, mv)
	if err != nil {
		return nil, nil, err
	}
	s.afterMove(ctx, game, mv, next, outcome)
	return next, outcome, nil
}

// applyAndPersist runs the load-validate-apply-write cycle, retrying a
// bounded number of times when the compare-and-swap write loses its race.
func (s *MoveService) applyAndPersist(ctx context.Context, game *model.Game, mv risk.Move) (*risk.GameState, *risk.BattleOutcome, error) {
	var lastErr error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		gs, version, err := s.stateRepo.Load(ctx, game.ID)
		if err != nil {
			return nil, nil, err
		}
		if gs == nil {
			return nil, nil, ErrGameNotFound
		}

		wasSetup := gs.Status == risk.StatusSetup

		next, outcome, err := risk.Apply(gs, mv, s.board, s.roller, nil)
		if err != nil {
			return nil, nil, err
		}

		switch mv.Kind {
		case risk.MoveDeploy:
			err = s.stateRepo.PlaceArmiesAtomic(ctx, game.ID, mv.Player, mv.To, mv.Troops, next, version)
		case risk.MoveAttack:
			err = s.stateRepo.AttackAtomic(ctx, game.ID, mv.From, mv.To, *outcome, next, version)
		default:
			err = s.stateRepo.Save(ctx, game.ID, next, version)
		}
		if errors.Is(err, repository.ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		if wasSetup && next.Status == risk.StatusPlaying {
			started, err := s.stateRepo.CheckAndTransitionSetupAtomic(ctx, game.ID, next)
			if err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("Setup transition check failed")
			} else if started {
				log.Info().Str("gameId", game.ID).Msg("Setup complete, game started")
				s.broadcast.BroadcastGameEvent(game.ID, "game_started", next)
			}
		}
		return next, outcome, nil
	}
	return nil, nil, lastErr
}

// afterMove fans out the side effects of a successfully persisted move.
func (s *MoveService) afterMove(ctx context.Context, game *model.Game, mv risk.Move, next *risk.GameState, outcome *risk.BattleOutcome) {
	if _, err := s.moveRepo.Record(ctx, game.ID, mv.Player, next.Turn, mv, outcome); err != nil {
		log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to record move")
	}

	if data, err := json.Marshal(next); err == nil {
		if err := s.cache.SetGameState(ctx, game.ID, data); err != nil {
			log.Warn().Err(err).Str("gameId", game.ID).Msg("Failed to cache game state")
		}
	}

	s.broadcast.BroadcastGameEvent(game.ID, "state_changed", next)
	if outcome != nil {
		s.broadcast.BroadcastGameEvent(game.ID, "battle_resolved", map[string]any{
			"from": mv.From, "to": mv.To, "outcome": outcome,
		})
	}

	if next.Status == risk.StatusFinished {
		if err := s.gameRepo.SetFinished(ctx, game.ID, next.Winner); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to finish game")
		}
		if err := s.cache.DeleteGameData(ctx, game.ID); err != nil {
			log.Warn().Err(err).Str("gameId", game.ID).Msg("Failed to drop game cache")
		}
		s.broadcast.BroadcastGameEvent(game.ID, "game_ended", map[string]string{"winner": next.Winner})
		return
	}

	deadline := time.Now().Add(ParseDuration(game.TurnDuration))
	if err := s.cache.SetTurnTimer(ctx, game.ID, deadline); err != nil {
		log.Warn().Err(err).Str("gameId", game.ID).Msg("Failed to set turn timer")
	}

	if cur := next.CurrentPlayer(); cur != nil && isBot(game, cur.ID) && !isBot(game, mv.Player) {
		go func() {
			botCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			s.RunBotTurns(botCtx, game.ID)
		}()
	}
}

// RunBotTurns plays moves for bot players until a human is to act, the game
// ends, or the move cap is hit.
func (s *MoveService) RunBotTurns(ctx context.Context, gameID string) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil || game == nil {
		return
	}

	for i := 0; i < maxBotMoves; i++ {
		gs, _, err := s.stateRepo.Load(ctx, gameID)
		if err != nil || gs == nil {
			return
		}
		if gs.Status != risk.StatusSetup && gs.Status != risk.StatusPlaying {
			return
		}
		cur := gs.CurrentPlayer()
		if cur == nil || !isBot(game, cur.ID) {
			return
		}

		strat := bot.StrategyForDifficulty(botDifficulty(game, cur.ID))
		s.rngMu.Lock()
		mv := strat.ChooseMove(gs, s.board, cur.ID, s.rng)
		s.rngMu.Unlock()

		next, outcome, err := s.applyAndPersist(ctx, game, mv)
		if err != nil {
			log.Error().Err(err).Str("gameId", gameID).Str("bot", cur.ID).
				Str("move", mv.Describe()).Msg("Bot move failed")
			return
		}
		log.Debug().Str("gameId", gameID).Str("bot", cur.ID).Str("strategy", strat.Name()).
			Str("move", mv.Describe()).Msg("Bot move applied")
		s.afterBotMove(ctx, game, mv, next, outcome)
		if next.Status == risk.StatusFinished {
			return
		}
	}
	log.Warn().Str("gameId", gameID).Msg("Bot move cap reached, yielding")
}

// afterBotMove is afterMove without the bot-turn trigger: RunBotTurns owns
// the loop, so a nested goroutine would double-play.
func (s *MoveService) afterBotMove(ctx context.Context, game *model.Game, mv risk.Move, next *risk.GameState, outcome *risk.BattleOutcome) {
	if _, err := s.moveRepo.Record(ctx, game.ID, mv.Player, next.Turn, mv, outcome); err != nil {
		log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to record bot move")
	}
	if data, err := json.Marshal(next); err == nil {
		_ = s.cache.SetGameState(ctx, game.ID, data)
	}
	s.broadcast.BroadcastGameEvent(game.ID, "state_changed", next)
	if outcome != nil {
		s.broadcast.BroadcastGameEvent(game.ID, "battle_resolved", map[string]any{
			"from": mv.From, "to": mv.To, "outcome": outcome,
		})
	}
	if next.Status == risk.StatusFinished {
		if err := s.gameRepo.SetFinished(ctx, game.ID, next.Winner); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to finish game")
		}
		_ = s.cache.DeleteGameData(ctx, game.ID)
		s.broadcast.BroadcastGameEvent(game.ID, "game_ended", map[string]string{"winner": next.Winner})
		return
	}
	deadline := time.Now().Add(ParseDuration(game.TurnDuration))
	_ = s.cache.SetTurnTimer(ctx, game.ID, deadline)
}

// GetState returns the current board state, serving from cache when warm.
func (s *MoveService) GetState(ctx context.Context, gameID string) (*risk.GameState, error) {
	if data, err := s.cache.GetGameState(ctx, gameID); err == nil && data != nil {
		var gs risk.GameState
		if err := json.Unmarshal(data, &gs); err == nil {
			return &gs, nil
		}
		log.Warn().Str("gameId", gameID).Msg("Corrupt cached state, falling back to postgres")
	}

	gs, _, err := s.stateRepo.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, ErrGameNotFound
	}
	if data, err := json.Marshal(gs); err == nil {
		_ = s.cache.SetGameState(ctx, gameID, data)
	}
	return gs, nil
}

// LegalMoves returns every move the current player could make.
func (s *MoveService) LegalMoves(ctx context.Context, gameID string) ([]risk.Move, error) {
	gs, err := s.GetState(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return risk.LegalMoves(gs, s.board), nil
}

// ListMoves returns the recorded move history for a game.
func (s *MoveService) ListMoves(ctx context.Context, gameID string, limit int) ([]model.GameMove, error) {
	return s.moveRepo.ListByGame(ctx, gameID, limit)
}

// Tutorial returns the tutorial overlay for a game, creating it on first use.
func (s *MoveService) Tutorial(gameID string) *risk.Tutorial {
	return s.tutorial(gameID)
}

// AdvanceTutorial moves a tutorial game to its next step.
func (s *MoveService) AdvanceTutorial(ctx context.Context, gameID, userID string) (*risk.Tutorial, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Mode != "tutorial" || game.CreatorID != userID {
		return nil, ErrNotInGame
	}
	tut := s.tutorial(gameID)
	if tut.Done() {
		return nil, ErrTutorialDone
	}
	tut.Continue()
	s.broadcast.BroadcastGameEvent(gameID, "tutorial_step", tut)
	return tut, nil
}

// AutoAdvance plays for the current player after their turn timer expires:
// a setup placement is made for them, otherwise their turn is skipped.
func (s *MoveService) AutoAdvance(ctx context.Context, gameID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil || (game.Status != "setup" && game.Status != "playing") {
		return nil
	}
	gs, _, err := s.stateRepo.Load(ctx, gameID)
	if err != nil || gs == nil {
		return err
	}
	cur := gs.CurrentPlayer()
	if cur == nil {
		return nil
	}

	var mv risk.Move
	if gs.Status == risk.StatusSetup || (gs.Phase == risk.PhaseReinforcement && cur.ArmiesToPlace > 0) {
		// Skipping is not a legal setup move; place for them instead.
		s.rngMu.Lock()
		mv = bot.RandomStrategy{}.ChooseMove(gs, s.board, cur.ID, s.rng)
		s.rngMu.Unlock()
	} else {
		mv = risk.Skip(cur.ID)
	}

	log.Info().Str("gameId", gameID).Str("player", cur.ID).Str("move", mv.Describe()).
		Msg("Turn timer expired, auto-advancing")
	next, outcome, err := s.applyAndPersist(ctx, game, mv)
	if err != nil {
		return err
	}
	s.afterMove(ctx, game, mv, next, outcome)
	return nil
}

func (s *MoveService) tutorial(gameID string) *risk.Tutorial {
	v, _ := s.tutorials.LoadOrStore(gameID, risk.NewTutorial())
	return v.(*risk.Tutorial)
}

func isBot(game *model.Game, userID string) bool {
	for _, p := range game.Players {
		if p.UserID == userID {
			return p.IsBot
		}
	}
	return false
}

func botDifficulty(game *model.Game, userID string) string {
	for _, p := range game.Players {
		if p.UserID == userID && p.IsBot {
			return p.BotDifficulty
		}
	}
	return "easy"
}
