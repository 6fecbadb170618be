// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jason-s-yu/codenames/internal/cache"
	"github.com/jason-s-yu/codenames/internal/engine"
)

// SaveGameState upserts the full engine snapshot as JSONB. The state column
// is the source of truth for reload after a restart; live play happens
// against the in-memory copy.
func SaveGameState(ctx context.Context, gameID, lobbyID uuid.UUID, state engine.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	q := `
	INSERT INTO games (id, lobby_id, stage, state)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET stage=$3, state=$4, updated_at=now()
	`
	if _, err := DB.Exec(ctx, q, gameID, lobbyID, string(state.Stage), data); err != nil {
		return fmt.Errorf("failed to upsert game state: %w", err)
	}
	return nil
}

// LoadGameState reads a persisted snapshot back.
func LoadGameState(ctx context.Context, gameID uuid.UUID) (engine.GameState, error) {
	var data []byte
	q := `SELECT state FROM games WHERE id=$1`
	if err := DB.QueryRow(ctx, q, gameID).Scan(&data); err != nil {
		return engine.GameState{}, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}

	var state engine.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return engine.GameState{}, fmt.Errorf("failed to unmarshal game state: %w", err)
	}
	return state, nil
}

// RecordGameResult persists the final outcome: winner, per-team card
// tallies, and the terminal snapshot, in one transaction.
func RecordGameResult(ctx context.Context, gameID uuid.UUID, winner engine.Team, final engine.GameState) error {
	data, err := json.Marshal(final)
	if err != nil {
		return fmt.Errorf("failed to marshal final state: %w", err)
	}

	selected := map[engine.Team]int{}
	for _, c := range final.Cards {
		if c.Selected {
			selected[c.Team]++
		}
	}

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsert := `
		INSERT INTO games (id, stage, state, status)
		VALUES ($1, $2, $3, 'completed')
		ON CONFLICT (id) DO UPDATE SET stage=$2, state=$3, status='completed', updated_at=now()
		`
		if _, e := tx.Exec(ctx, upsert, gameID, string(final.Stage), data); e != nil {
			return e
		}

		result := `
		INSERT INTO game_results (game_id, winner, rounds_played, red_cards_found, blue_cards_found)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id)
		DO UPDATE SET winner=$2, rounds_played=$3, red_cards_found=$4, blue_cards_found=$5
		`
		_, e := tx.Exec(ctx, result, gameID, string(winner), len(final.Rounds),
			selected[engine.TeamRed], selected[engine.TeamBlue])
		return e
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or result: %w", err)
	}
	return nil
}

// InsertTurnRecords bulk-inserts historian records into game_turns. Used by
// the historian's batch flush.
func InsertTurnRecords(ctx context.Context, records []cache.TurnRecord) error {
	if len(records) == 0 {
		return nil
	}

	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
		INSERT INTO game_turns (game_id, action_index, actor_user_id, action_type, action_payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, to_timestamp($6::double precision / 1000))
		ON CONFLICT (game_id, action_index) DO NOTHING
		`
		for _, rec := range records {
			payload, err := json.Marshal(rec.ActionPayload)
			if err != nil {
				return fmt.Errorf("failed to marshal action payload: %w", err)
			}
			if _, err := tx.Exec(ctx, q,
				rec.GameID, rec.ActionIndex, rec.ActorUserID,
				rec.ActionType, payload, rec.Timestamp,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkGameAbandoned flags a game that stopped receiving actions.
func MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error {
	q := `UPDATE games SET status='abandoned', updated_at=now() WHERE id=$1 AND status IS DISTINCT FROM 'completed'`
	if _, err := DB.Exec(ctx, q, gameID); err != nil {
		return fmt.Errorf("failed to mark game %s abandoned: %w", gameID, err)
	}
	return nil
}
