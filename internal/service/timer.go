package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TimerListener listens for Redis keyspace notifications on expired timer
// keys and auto-advances a game when its turn timer runs out. A polling
// fallback catches expirations if keyspace notifications are unavailable.
type TimerListener struct {
	rdb     *redis.Client
	moveSvc *MoveService
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *redis.Client, moveSvc *MoveService) *TimerListener {
	return &TimerListener{rdb: rdb, moveSvc: moveSvc}
}

// Start begins listening for expired key events and runs a polling fallback.
func (t *TimerListener) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollStaleTurns(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// pollStaleTurns periodically sweeps active games whose timer key has
// vanished without a notification (redis restart, missed event) and
// advances any that are past their deadline.
func (t *TimerListener) pollStaleTurns(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("Turn deadline poller started (30s interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Turn deadline poller stopped")
			return
		case <-ticker.C:
			t.checkStaleTurns(ctx)
		}
	}
}

// checkStaleTurns advances every active game with no live timer key. A game
// that just advanced gets a fresh timer, so it drops out of the next sweep.
func (t *TimerListener) checkStaleTurns(ctx context.Context) {
	games, err := t.moveSvc.gameRepo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active games")
		return
	}
	for _, g := range games {
		exists, err := t.rdb.Exists(ctx, "game:"+g.ID+":timer").Result()
		if err != nil {
			log.Error().Err(err).Str("gameId", g.ID).Msg("Failed to check timer key")
			continue
		}
		if exists > 0 {
			continue
		}
		log.Info().Str("gameId", g.ID).Msg("Poller found active game without timer, auto-advancing")
		if err := t.moveSvc.AutoAdvance(ctx, g.ID); err != nil {
			log.Error().Err(err).Str("gameId", g.ID).Msg("Auto-advance failed from poller")
		}
	}
}

// handleExpiry processes an expired key. Only acts on game timer keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	if !strings.HasPrefix(key, "game:") || !strings.HasSuffix(key, ":timer") {
		return
	}

	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return
	}
	gameID := parts[1]

	log.Info().Str("gameId", gameID).Msg("Turn timer expired, auto-advancing")
	if err := t.moveSvc.AutoAdvance(ctx, gameID); err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("Auto-advance failed after timer expiry")
	}
}
