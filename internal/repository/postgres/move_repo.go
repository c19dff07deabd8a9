package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmhart/world-conquest/internal/model"
	"github.com/jmhart/world-conquest/pkg/risk"
)

// MoveRepo records the history of applied moves.
type MoveRepo struct {
	db *sql.DB
}

// NewMoveRepo creates a MoveRepo.
func NewMoveRepo(db *sql.DB) *MoveRepo {
	return &MoveRepo{db: db}
}

// Record inserts one applied move. outcome is nil for everything but attacks.
func (r *MoveRepo) Record(ctx context.Context, gameID, userID string, turn int, mv risk.Move, outcome *risk.BattleOutcome) (*model.GameMove, error) {
	var outcomeJSON []byte
	if outcome != nil {
		var err error
		outcomeJSON, err = json.Marshal(outcome)
		if err != nil {
			return nil, fmt.Errorf("marshal outcome: %w", err)
		}
	}

	var m model.GameMove
	var from, to sql.NullString
	var stored sql.NullString
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO game_moves (game_id, user_id, turn, kind, from_terr, to_terr, troops, outcome)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, game_id, user_id, turn, kind, from_terr, to_terr, troops, outcome::text, created_at`,
		gameID, userID, turn, string(mv.Kind), nullStr(mv.From), nullStr(mv.To), mv.Troops, outcomeJSON,
	).Scan(&m.ID, &m.GameID, &m.UserID, &m.Turn, &m.Kind, &from, &to, &m.Troops, &stored, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record move: %w", err)
	}
	m.FromTerr = from.String
	m.ToTerr = to.String
	if stored.Valid {
		m.Outcome = json.RawMessage(stored.String)
	}
	return &m, nil
}

// ListByGame returns the most recent moves for a game, oldest first.
func (r *MoveRepo) ListByGame(ctx context.Context, gameID string, limit int) ([]model.GameMove, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, user_id, turn, kind, COALESCE(from_terr, ''), COALESCE(to_terr, ''), troops, outcome::text, created_at
		 FROM (SELECT * FROM game_moves WHERE game_id = $1 ORDER BY created_at DESC LIMIT $2) recent
		 ORDER BY created_at`, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []model.GameMove
	for rows.Next() {
		var m model.GameMove
		var stored sql.NullString
		if err := rows.Scan(&m.ID, &m.GameID, &m.UserID, &m.Turn, &m.Kind, &m.FromTerr, &m.ToTerr, &m.Troops, &stored, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		if stored.Valid {
			m.Outcome = json.RawMessage(stored.String)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
