package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for live game data.
func stateKey(gameID string) string  { return "game:" + gameID + ":state" }
func timerKey(gameID string) string  { return "game:" + gameID + ":timer" }
func onlineKey(gameID string) string { return "game:" + gameID + ":online" }

// SetGameState stores the live game state JSON.
func (c *Client) SetGameState(ctx context.Context, gameID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(gameID), []byte(state), 0).Err()
}

// GetGameState retrieves the live game state JSON, nil on a cache miss.
func (c *Client) GetGameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	return json.RawMessage(data), nil
}

// InvalidateGameState drops the cached state so the next read goes to postgres.
func (c *Client) InvalidateGameState(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, stateKey(gameID)).Err()
}

// turnGracePeriod is the extra time after the displayed deadline before the
// auto-skip triggers, giving slow clients a few seconds of leeway.
const turnGracePeriod = 5 * time.Second

// SetTurnTimer creates a timer key with a TTL. When the key expires, Redis
// keyspace notifications trigger an auto-skip of the current player.
func (c *Client) SetTurnTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + turnGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTurnTimer removes the turn timer for a game.
func (c *Client) ClearTurnTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// MarkOnline adds a user to the game's presence set.
func (c *Client) MarkOnline(ctx context.Context, gameID, userID string) error {
	return c.rdb.SAdd(ctx, onlineKey(gameID), userID).Err()
}

// MarkOffline removes a user from the game's presence set.
func (c *Client) MarkOffline(ctx context.Context, gameID, userID string) error {
	return c.rdb.SRem(ctx, onlineKey(gameID), userID).Err()
}

// OnlineUsers returns the users currently connected to a game.
func (c *Client) OnlineUsers(ctx context.Context, gameID string) ([]string, error) {
	return c.rdb.SMembers(ctx, onlineKey(gameID)).Result()
}

// DeleteGameData removes all Redis data for a game (on game end).
func (c *Client) DeleteGameData(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, stateKey(gameID), timerKey(gameID), onlineKey(gameID)).Err()
}
