package driven

import (
	"context"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// ProviderQuery is the structured provider-level filter built by the search
// orchestrator. A nil IDs slice means unconstrained; a non-nil slice
// restricts results to those ids. MinRating 0 means no rating threshold.
type ProviderQuery struct {
	IDs       []string
	MinRating float64
}

// ProviderStore executes filtered, sorted, paginated queries and the
// proximity aggregation over provider and line-item documents (PostgreSQL).
// The search core never writes through this port.
type ProviderStore interface {
	// FindWithCount runs a filtered, sorted, skip/limit query and returns the
	// matching providers plus the total matching count unbounded by
	// pagination.
	FindWithCount(ctx context.Context, q ProviderQuery, sort domain.SortOrder, skip, limit int) ([]*domain.Provider, int, error)

	// FindNear returns providers ordered by distance from origin, applying q
	// as a pre-filter. Providers without an address are excluded. A
	// maxDistance of 0 means no distance cutoff. A nil sort keeps the natural
	// nearest-first order; otherwise sort re-orders the proximity results.
	FindNear(ctx context.Context, origin domain.GeoPoint, maxDistance float64, q ProviderQuery, sort domain.SortOrder, skip, limit int) ([]*domain.Provider, error)

	// ItemsInPriceRange returns line-items whose price falls in [min, max],
	// either bound optional, with the owning provider id resolved. Items
	// without a price never match.
	ItemsInPriceRange(ctx context.Context, min, max *float64) ([]*domain.ServiceItem, error)

	// ItemsByProvider returns all line-items owned by a provider.
	ItemsByProvider(ctx context.Context, providerID string) ([]*domain.ServiceItem, error)
}
