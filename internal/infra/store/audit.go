package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/careloop/mcp-gateway/internal/domain/claims"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const auditKeyPrefix = "audit:claims:"

type auditSink struct {
	client *redis.Client
}

func NewAuditSink(client *redis.Client) claims.AuditSink {
	return &auditSink{client: client}
}

// Append writes one audit record under a fresh key. The record's
// RetentionDays drives the key TTL.
func (s *auditSink) Append(ctx context.Context, entry claims.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	ttl := time.Duration(entry.RetentionDays) * 24 * time.Hour
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}

	key := auditKeyPrefix + uuid.NewString()
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}
