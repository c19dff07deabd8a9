package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// RecoverActiveGames rehydrates Redis state for all active games from
// Postgres. Called on server startup to restore caches and turn timers lost
// during a restart.
func (s *MoveService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("No active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("Recovering active games after restart")

	for _, game := range games {
		gs, _, err := s.stateRepo.Load(ctx, game.ID)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to load state during recovery")
			continue
		}
		if gs == nil {
			log.Warn().Str("gameId", game.ID).Msg("Active game has no state, skipping")
			continue
		}

		if data, err := json.Marshal(gs); err == nil {
			if err := s.cache.SetGameState(ctx, game.ID, data); err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore game state cache")
			}
		}

		// The original deadline is gone with the timer key; grant the
		// current player a fresh full turn.
		deadline := time.Now().Add(ParseDuration(game.TurnDuration))
		if err := s.cache.SetTurnTimer(ctx, game.ID, deadline); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore turn timer")
		}

		if cur := gs.CurrentPlayer(); cur != nil && isBot(&game, cur.ID) {
			gameID := game.ID
			go func() {
				botCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				defer cancel()
				s.RunBotTurns(botCtx, gameID)
			}()
		}

		log.Info().Str("gameId", game.ID).Str("status", string(gs.Status)).
			Str("phase", string(gs.Phase)).Int("turn", gs.Turn).
			Time("deadline", deadline).Msg("Recovered game state")
	}
	return nil
}
