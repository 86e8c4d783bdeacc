// Package database persists finished game results in PostgreSQL.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaamonde-rodri/uno-game/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     UUID PRIMARY KEY,
	game_code   TEXT NOT NULL,
	winner_id   UUID NOT NULL,
	winner_name TEXT NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS game_result_players (
	game_id    UUID NOT NULL REFERENCES game_results(game_id) ON DELETE CASCADE,
	player_id  UUID NOT NULL,
	name       TEXT NOT NULL,
	cards_left INT  NOT NULL,
	PRIMARY KEY (game_id, player_id)
);
`

// Store writes final game standings to PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool, verifies it, and ensures the schema
// exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// SaveResult stores a finished game and its per-player standings in one
// transaction.
func (s *Store) SaveResult(ctx context.Context, res game.Result) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO game_results (game_id, game_code, winner_id, winner_name, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id) DO NOTHING`,
		res.GameID, res.GameCode, res.WinnerID, res.WinnerName, res.FinishedAt)
	if err != nil {
		return fmt.Errorf("inserting game result: %w", err)
	}

	for _, p := range res.Players {
		_, err = tx.Exec(ctx, `
			INSERT INTO game_result_players (game_id, player_id, name, cards_left)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (game_id, player_id) DO NOTHING`,
			res.GameID, p.PlayerID, p.Name, p.CardsLeft)
		if err != nil {
			return fmt.Errorf("inserting standing for %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing game result: %w", err)
	}
	return nil
}
