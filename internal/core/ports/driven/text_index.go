package driven

import (
	"context"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// TextIndex is the full-text relevance oracle (Elasticsearch). The search
// core only reads from it; ingestion and bulk indexing live elsewhere.
type TextIndex interface {
	// SearchProviders returns candidate provider ids matching the free-text
	// query and/or category against the weighted index fields, most-relevant
	// first, truncated to size.
	SearchProviders(ctx context.Context, query string, category domain.Category, subcategories []domain.Subcategory, size int) ([]string, error)
}
