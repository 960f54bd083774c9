package driven

import (
	"context"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// QueryLog records observed free-text search terms and serves the most
// frequent ones (Redis). It is auxiliary: a QueryLog failure must never fail
// a search.
type QueryLog interface {
	// Record increments the frequency of a search term.
	Record(ctx context.Context, term string) error

	// Top returns the n most frequent terms, most frequent first.
	Top(ctx context.Context, n int) ([]domain.QueryCount, error)
}
