package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game represents a Risk game.
type Game struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CreatorID    string       `json:"creator_id"`
	Status       string       `json:"status"` // waiting, setup, playing, finished
	Mode         string       `json:"mode"`   // standard, tutorial
	Winner       string       `json:"winner,omitempty"`
	TurnDuration string       `json:"turn_duration"`
	Version      int64        `json:"version"`
	CreatedAt    time.Time    `json:"created_at"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	Players      []GamePlayer `json:"players,omitempty"`
}

// GamePlayer represents a player's membership in a game.
type GamePlayer struct {
	GameID        string    `json:"game_id"`
	UserID        string    `json:"user_id"`
	Color         string    `json:"color,omitempty"`
	TurnOrder     int       `json:"turn_order"`
	IsBot         bool      `json:"is_bot"`
	BotDifficulty string    `json:"bot_difficulty"`
	JoinedAt      time.Time `json:"joined_at"`
}

// GameMove is the persisted record of one applied move.
type GameMove struct {
	ID        string          `json:"id"`
	GameID    string          `json:"game_id"`
	UserID    string          `json:"user_id"`
	Turn      int             `json:"turn"`
	Kind      string          `json:"kind"`
	FromTerr  string          `json:"from,omitempty"`
	ToTerr    string          `json:"to,omitempty"`
	Troops    int             `json:"troops,omitempty"`
	Outcome   json.RawMessage `json:"outcome,omitempty"` // battle outcome for attacks
	CreatedAt time.Time       `json:"created_at"`
}

// Message represents an in-game chat message.
type Message struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
