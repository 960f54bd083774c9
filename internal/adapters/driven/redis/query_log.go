package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.QueryLog = (*QueryLog)(nil)

// trendingKey is the sorted set holding term frequencies
const trendingKey = "search:trending"

// QueryLog implements driven.QueryLog using a Redis sorted set
type QueryLog struct {
	client *redis.Client
}

// NewQueryLog creates a new Redis-backed QueryLog
func NewQueryLog(client *redis.Client) *QueryLog {
	return &QueryLog{client: client}
}

// Ping reports whether Redis is reachable
func (l *QueryLog) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Record increments the frequency of a normalized search term
func (l *QueryLog) Record(ctx context.Context, term string) error {
	term = normalizeTerm(term)
	if term == "" {
		return nil
	}
	if err := l.client.ZIncrBy(ctx, trendingKey, 1, term).Err(); err != nil {
		return fmt.Errorf("failed to record search term: %w", err)
	}
	return nil
}

// Top returns the n most frequent terms, most frequent first
func (l *QueryLog) Top(ctx context.Context, n int) ([]domain.QueryCount, error) {
	if n <= 0 {
		return []domain.QueryCount{}, nil
	}

	entries, err := l.client.ZRevRangeWithScores(ctx, trendingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trending terms: %w", err)
	}

	out := make([]domain.QueryCount, 0, len(entries))
	for _, e := range entries {
		term, ok := e.Member.(string)
		if !ok {
			continue
		}
		out = append(out, domain.QueryCount{Term: term, Count: int64(e.Score)})
	}
	return out, nil
}

// normalizeTerm folds case and whitespace so "Plumber " and "plumber" count
// as one term
func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}
