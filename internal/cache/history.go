// Package cache publishes game action history to Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vaamonde-rodri/uno-game/internal/game"
)

const actionKeyPrefix = "uno:game:actions:"

// Connect opens and verifies a Redis connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// History appends action records to a per-game Redis list, in order, for
// replay and audit consumers.
type History struct {
	rdb *redis.Client
}

func NewHistory(rdb *redis.Client) *History {
	return &History{rdb: rdb}
}

func (h *History) LogAction(ctx context.Context, rec game.ActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling action record: %w", err)
	}
	key := actionKeyPrefix + rec.GameID.String()
	if err := h.rdb.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("appending action %d for game %s: %w", rec.Seq, rec.GameID, err)
	}
	return nil
}
