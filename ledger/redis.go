package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/picopay/bitserv/types"
)

const redisKeyPrefix = "bitserv:redemption:"

// Redis is a shared ledger backed by a single redis key per identifier.
// SET NX gives the atomic insert-if-absent; records are stored without TTL
// so the dedup window spans the ledger's lifetime.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) GetOrCreate(ctx context.Context, identifier string, price types.Price) (types.Record, bool, error) {
	rec := types.Record{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return types.Record{}, false, fmt.Errorf("marshal redemption record: %w", err)
	}

	key := redisKeyPrefix + identifier
	created, err := r.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return types.Record{}, false, fmt.Errorf("ledger write for %s: %w", identifier, err)
	}
	if created {
		return rec, true, nil
	}

	existing, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return types.Record{}, false, fmt.Errorf("ledger read for %s: %w", identifier, err)
	}
	var prior types.Record
	if err := json.Unmarshal(existing, &prior); err != nil {
		return types.Record{}, false, fmt.Errorf("decode redemption record for %s: %w", identifier, err)
	}
	return prior, false, nil
}

var _ Ledger = (*Redis)(nil)
