package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmhart/world-conquest/internal/model"
)

// MessageRepo handles chat message database operations.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo creates a MessageRepo.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create inserts a new message.
func (r *MessageRepo) Create(ctx context.Context, gameID, senderID, content string) (*model.Message, error) {
	var m model.Message
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (game_id, sender_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, game_id, sender_id, content, created_at`,
		gameID, senderID, content,
	).Scan(&m.ID, &m.GameID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &m, nil
}

// ListByGame returns all messages in a game in chronological order.
func (r *MessageRepo) ListByGame(ctx context.Context, gameID string) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, sender_id, content, created_at
		 FROM messages WHERE game_id = $1 ORDER BY created_at`, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.GameID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
