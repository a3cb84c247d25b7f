package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/careloop/mcp-gateway/internal/domain/claims"
	"github.com/redis/go-redis/v9"
)

const claimsKeyPrefix = "claims:user:"

// NewRedisClient connects and pings so a bad URL fails at startup, not on
// the first request.
func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opt.PoolSize = poolSize

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

type claimsStore struct {
	client *redis.Client
}

func NewClaimsStore(client *redis.Client) claims.Store {
	return &claimsStore{client: client}
}

// Put overwrites the subject's claims whole. No merge, no TTL.
func (s *claimsStore) Put(ctx context.Context, uid string, rc claims.RoleClaims) error {
	data, err := json.Marshal(rc)
	if err != nil {
		return fmt.Errorf("failed to marshal claims: %w", err)
	}

	if err := s.client.Set(ctx, claimsKeyPrefix+uid, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write claims: %w", err)
	}

	return nil
}

func (s *claimsStore) Get(ctx context.Context, uid string) (*claims.RoleClaims, error) {
	val, err := s.client.Get(ctx, claimsKeyPrefix+uid).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read claims: %w", err)
	}

	var rc claims.RoleClaims
	if err := json.Unmarshal([]byte(val), &rc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	return &rc, nil
}
