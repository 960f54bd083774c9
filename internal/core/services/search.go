package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driven"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driving"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

const (
	// candidateFetchSize caps how many candidate ids the text index returns
	// per resolution
	candidateFetchSize = 500

	// minDistanceCutoff is the smallest radius (in store distance units) that
	// actually constrains the proximity query; smaller radii are treated as
	// "no cutoff" to avoid over-constraining near-zero-radius requests
	minDistanceCutoff = 100
)

// searchService implements the SearchService interface. It drives the
// end-to-end query resolution: candidate narrowing across the text index and
// the structured store, ranking, pagination and summary projection.
type searchService struct {
	textIndex driven.TextIndex
	store     driven.ProviderStore
	queryLog  driven.QueryLog // optional, may be nil
	projector *projector
	logger    *slog.Logger
}

// NewSearchService creates a new SearchService. queryLog may be nil when no
// trending backend is configured; logger may be nil to use slog.Default.
func NewSearchService(textIndex driven.TextIndex, store driven.ProviderStore, queryLog driven.QueryLog, logger *slog.Logger) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		textIndex: textIndex,
		store:     store,
		queryLog:  queryLog,
		projector: &projector{store: store},
		logger:    logger,
	}
}

// Search resolves the filters into a paginated, ranked envelope
func (s *searchService) Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchPage, error) {
	filters.ApplyDefaults()

	if filters.Category != "" && !domain.ValidCategory(filters.Category) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, filters.Category)
	}

	candidates := domain.NewCandidateSet()
	narrowed := false

	// Free-text / category stage: the text index is the relevance oracle.
	if filters.Query != "" || filters.Category != "" {
		subcategories := domain.SubcategoriesFor(filters.Category)
		if len(filters.Subcategories) > 0 {
			subcategories = filters.Subcategories
		}

		ids, err := s.textIndex.SearchProviders(ctx, filters.Query, filters.Category, subcategories, candidateFetchSize)
		if err != nil {
			s.logger.Error("text index search failed", "query", filters.Query, "category", filters.Category, "error", err)
			return nil, fmt.Errorf("search text index: %w", err)
		}

		narrowed = true
		candidates.Narrow(ids)
		if candidates.Empty() {
			return domain.EmptyPage(filters.Page, filters.Limit), nil
		}
	}

	// Price stage: resolve line-items in range to their owning providers.
	if filters.PriceMin != nil || filters.PriceMax != nil {
		items, err := s.store.ItemsInPriceRange(ctx, filters.PriceMin, filters.PriceMax)
		if err != nil {
			s.logger.Error("price range query failed", "error", err)
			return nil, fmt.Errorf("query line-items by price: %w", err)
		}

		narrowed = true
		candidates.Narrow(distinctProviderIDs(items))
		if candidates.Empty() {
			return domain.EmptyPage(filters.Page, filters.Limit), nil
		}
	}

	// Provider-level structured filter.
	var query driven.ProviderQuery
	if candidates.Constrained() {
		if candidates.Len() == 0 {
			// Should already have short-circuited above.
			return domain.EmptyPage(filters.Page, filters.Limit), nil
		}
		query.IDs = candidates.IDs()
	} else if narrowed {
		// A narrowing filter ran but produced no structured restriction.
		return domain.EmptyPage(filters.Page, filters.Limit), nil
	}
	if filters.Rating > 0 {
		query.MinRating = filters.Rating
	}

	order := sortOrderFor(filters.Sort, narrowed)
	skip := (filters.Page - 1) * filters.Limit

	var (
		providers []*domain.Provider
		total     int
	)
	if filters.Location != "" {
		origin, err := domain.ParseLocation(filters.Location)
		if err != nil {
			return nil, err
		}

		var maxDistance float64
		if filters.Distance > minDistanceCutoff {
			maxDistance = float64(filters.Distance)
		}

		// With no explicit sort preference the aggregation's natural
		// nearest-first order is the ranking; an explicit rating/views sort
		// re-orders the proximity results.
		geoSort := order
		if filters.Sort == domain.SortRelevance {
			geoSort = nil
		}

		providers, err = s.store.FindNear(ctx, origin, maxDistance, query, geoSort, skip, filters.Limit)
		if err != nil {
			s.logger.Error("proximity query failed", "location", filters.Location, "error", err)
			return nil, fmt.Errorf("proximity query: %w", err)
		}
		// The proximity pipeline yields no separate unbounded count.
		total = len(providers)
	} else {
		var err error
		providers, total, err = s.store.FindWithCount(ctx, query, order, skip, filters.Limit)
		if err != nil {
			s.logger.Error("provider query failed", "error", err)
			return nil, fmt.Errorf("query providers: %w", err)
		}
	}

	summaries, err := s.projector.projectAll(ctx, providers)
	if err != nil {
		s.logger.Error("projection failed", "error", err)
		return nil, fmt.Errorf("project providers: %w", err)
	}

	s.recordQuery(ctx, filters.Query)

	return &domain.SearchPage{
		Page:      filters.Page,
		Limit:     filters.Limit,
		Total:     total,
		Providers: summaries,
	}, nil
}

// TrendingQueries returns the most frequent free-text search terms
func (s *searchService) TrendingQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	if s.queryLog == nil {
		return []domain.QueryCount{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.queryLog.Top(ctx, limit)
}

// recordQuery feeds the trending log. Best-effort: a failure is logged and
// never fails the search.
func (s *searchService) recordQuery(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if s.queryLog == nil || term == "" {
		return
	}
	if err := s.queryLog.Record(ctx, term); err != nil {
		s.logger.Warn("failed to record search term", "term", term, "error", err)
	}
}

func distinctProviderIDs(items []*domain.ServiceItem) []string {
	seen := make(map[string]struct{}, len(items))
	var ids []string
	for _, item := range items {
		if _, ok := seen[item.ProviderID]; ok {
			continue
		}
		seen[item.ProviderID] = struct{}{}
		ids = append(ids, item.ProviderID)
	}
	return ids
}
