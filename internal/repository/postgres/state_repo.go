package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmhart/world-conquest/internal/repository"
	"github.com/jmhart/world-conquest/pkg/risk"
)

// StateRepo persists board state across the games, game_players, and
// game_territories tables. All writes run in one transaction and bump
// games.version; a write whose expected version has moved on rolls back
// with repository.ErrConflict.
type StateRepo struct {
	db *sql.DB
}

// NewStateRepo creates a StateRepo.
func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Init writes the freshly dealt setup state for a game.
func (r *StateRepo) Init(ctx context.Context, gameID string, gs *risk.GameState) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE games SET status = $2, phase = $3, turn = $4, current_idx = $5, version = version + 1
		 WHERE id = $1`,
		gameID, string(gs.Status), string(gs.Phase), gs.Turn, gs.Current,
	)
	if err != nil {
		return fmt.Errorf("init game row: %w", err)
	}

	for _, p := range gs.Players {
		_, err := tx.ExecContext(ctx,
			`UPDATE game_players SET armies_to_place = $3, eliminated = $4
			 WHERE game_id = $1 AND user_id = $2`,
			gameID, p.ID, p.ArmiesToPlace, p.Eliminated,
		)
		if err != nil {
			return fmt.Errorf("init player row: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO game_territories (game_id, territory_id, owner_id, armies)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (game_id, territory_id)
		 DO UPDATE SET owner_id = EXCLUDED.owner_id, armies = EXCLUDED.armies`)
	if err != nil {
		return fmt.Errorf("prepare insert territory: %w", err)
	}
	defer stmt.Close()

	for terrID, ts := range gs.Territories {
		if _, err := stmt.ExecContext(ctx, gameID, terrID, ts.Owner, ts.Armies); err != nil {
			return fmt.Errorf("insert territory: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the current state snapshot and its version.
func (r *StateRepo) Load(ctx context.Context, gameID string) (*risk.GameState, int64, error) {
	gs := &risk.GameState{Territories: make(map[string]risk.TerritoryState)}

	var version int64
	var status, phase string
	var winner sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT status, phase, turn, current_idx, winner, version FROM games WHERE id = $1`, gameID,
	).Scan(&status, &phase, &gs.Turn, &gs.Current, &winner, &version)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load game row: %w", err)
	}
	gs.Status = risk.GameStatus(status)
	gs.Phase = risk.GamePhase(phase)
	gs.Winner = winner.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, color, turn_order, armies_to_place, eliminated
		 FROM game_players WHERE game_id = $1 ORDER BY turn_order`, gameID)
	if err != nil {
		return nil, 0, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p risk.Player
		var color sql.NullString
		if err := rows.Scan(&p.ID, &color, &p.Order, &p.ArmiesToPlace, &p.Eliminated); err != nil {
			return nil, 0, fmt.Errorf("scan player: %w", err)
		}
		p.Color = risk.Color(color.String)
		gs.Players = append(gs.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	trows, err := r.db.QueryContext(ctx,
		`SELECT territory_id, owner_id, armies FROM game_territories WHERE game_id = $1`, gameID)
	if err != nil {
		return nil, 0, fmt.Errorf("load territories: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var terrID string
		var ts risk.TerritoryState
		if err := trows.Scan(&terrID, &ts.Owner, &ts.Armies); err != nil {
			return nil, 0, fmt.Errorf("scan territory: %w", err)
		}
		gs.Territories[terrID] = ts
	}
	if err := trows.Err(); err != nil {
		return nil, 0, err
	}
	return gs, version, nil
}

// Save writes a full snapshot under compare-and-swap.
func (r *StateRepo) Save(ctx context.Context, gameID string, gs *risk.GameState, version int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := casHeader(ctx, tx, gameID, gs, version); err != nil {
		return err
	}
	if err := savePlayers(ctx, tx, gameID, gs); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`UPDATE game_territories SET owner_id = $3, armies = $4
		 WHERE game_id = $1 AND territory_id = $2`)
	if err != nil {
		return fmt.Errorf("prepare update territory: %w", err)
	}
	defer stmt.Close()
	for terrID, ts := range gs.Territories {
		if _, err := stmt.ExecContext(ctx, gameID, terrID, ts.Owner, ts.Armies); err != nil {
			return fmt.Errorf("update territory: %w", err)
		}
	}
	return tx.Commit()
}

// PlaceArmiesAtomic applies a deploy: the territory's army count and the
// player's armies-to-place counter change together or not at all.
func (r *StateRepo) PlaceArmiesAtomic(ctx context.Context, gameID, playerID, territoryID string, amount int, gs *risk.GameState, version int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := casHeader(ctx, tx, gameID, gs, version); err != nil {
		return err
	}

	ts, ok := gs.Territories[territoryID]
	if !ok {
		return fmt.Errorf("place armies: territory %s not in state", territoryID)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE game_territories SET owner_id = $3, armies = $4
		 WHERE game_id = $1 AND territory_id = $2`,
		gameID, territoryID, ts.Owner, ts.Armies,
	)
	if err != nil {
		return fmt.Errorf("place armies territory: %w", err)
	}

	// During setup the deploy rotates the active player; carry every
	// player's counter rather than just the actor's.
	if err := savePlayers(ctx, tx, gameID, gs); err != nil {
		return err
	}
	return tx.Commit()
}

// AttackAtomic applies one resolved combat round: both territories, any
// ownership transfer, defender elimination, and the win check are a single
// transaction.
func (r *StateRepo) AttackAtomic(ctx context.Context, gameID, fromID, toID string, outcome risk.BattleOutcome, gs *risk.GameState, version int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := casHeader(ctx, tx, gameID, gs, version); err != nil {
		return err
	}

	for _, terrID := range []string{fromID, toID} {
		ts, ok := gs.Territories[terrID]
		if !ok {
			return fmt.Errorf("attack: territory %s not in state", terrID)
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE game_territories SET owner_id = $3, armies = $4
			 WHERE game_id = $1 AND territory_id = $2`,
			gameID, terrID, ts.Owner, ts.Armies,
		)
		if err != nil {
			return fmt.Errorf("attack territory: %w", err)
		}
	}

	if err := savePlayers(ctx, tx, gameID, gs); err != nil {
		return err
	}

	if gs.Status == risk.StatusFinished {
		_, err := tx.ExecContext(ctx,
			`UPDATE games SET finished_at = now() WHERE id = $1 AND finished_at IS NULL`, gameID)
		if err != nil {
			return fmt.Errorf("attack finish game: %w", err)
		}
	}
	return tx.Commit()
}

// CheckAndTransitionSetupAtomic flips a setup game to playing exactly once,
// under a row lock. gs is the post-transition state produced by the rules
// engine. The deploy that consumed the final setup army may already have
// written the playing header, so "once" is keyed on started_at: the first
// caller to find it unset under the lock stamps it and wins.
func (r *StateRepo) CheckAndTransitionSetupAtomic(ctx context.Context, gameID string, gs *risk.GameState) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status string
	var startedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT status, started_at FROM games WHERE id = $1 FOR UPDATE`, gameID,
	).Scan(&status, &startedAt)
	if err != nil {
		return false, fmt.Errorf("lock game row: %w", err)
	}
	if startedAt.Valid || status == "finished" {
		return false, nil
	}

	var remaining int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(armies_to_place), 0) FROM game_players WHERE game_id = $1`, gameID,
	).Scan(&remaining)
	if err != nil {
		return false, fmt.Errorf("sum allotments: %w", err)
	}
	if remaining != 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE games SET status = $2, phase = $3, turn = $4, current_idx = $5,
		        started_at = now(), version = version + 1
		 WHERE id = $1`,
		gameID, string(gs.Status), string(gs.Phase), gs.Turn, gs.Current,
	)
	if err != nil {
		return false, fmt.Errorf("transition game row: %w", err)
	}

	// The first player's reinforcement grant is part of the transition.
	if err := savePlayers(ctx, tx, gameID, gs); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func casHeader(ctx context.Context, tx *sql.Tx, gameID string, gs *risk.GameState, version int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE games SET status = $2, phase = $3, turn = $4, current_idx = $5,
		        winner = NULLIF($6, ''), version = version + 1
		 WHERE id = $1 AND version = $7`,
		gameID, string(gs.Status), string(gs.Phase), gs.Turn, gs.Current, gs.Winner, version,
	)
	if err != nil {
		return fmt.Errorf("update game row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

func savePlayers(ctx context.Context, tx *sql.Tx, gameID string, gs *risk.GameState) error {
	for _, p := range gs.Players {
		_, err := tx.ExecContext(ctx,
			`UPDATE game_players SET armies_to_place = $3, eliminated = $4
			 WHERE game_id = $1 AND user_id = $2`,
			gameID, p.ID, p.ArmiesToPlace, p.Eliminated,
		)
		if err != nil {
			return fmt.Errorf("update player row: %w", err)
		}
	}
	return nil
}
