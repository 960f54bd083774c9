package driving

import (
	"context"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// SearchService resolves marketplace queries into ranked provider summaries
type SearchService interface {
	// Search resolves the filters into a paginated, ranked envelope. It never
	// errors for "no matches" (empty list, total 0); it returns
	// domain.ErrInvalidLocation for an unparseable location and a wrapped
	// collaborator error for any retrieval failure.
	Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchPage, error)

	// TrendingQueries returns the most frequent free-text search terms.
	TrendingQueries(ctx context.Context, limit int) ([]domain.QueryCount, error)
}
