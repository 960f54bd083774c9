package services

import "github.com/nearbyhq/nearby-core/internal/core/domain"

// sortOrderFor maps the requested sort key and whether any narrowing filter
// (text or price) was applied to the active sort order.
//
// "relevance" without a narrowing filter has no relevance signal to rank on,
// so it falls back to newest-first. With a narrowing filter the text index's
// relevance order is not propagated into the structured sort (known
// limitation), so it shares the general-purpose fallback: rating then review
// count, both descending.
func sortOrderFor(key domain.SortKey, narrowed bool) domain.SortOrder {
	switch key {
	case domain.SortRelevance:
		if !narrowed {
			return domain.SortOrder{{Column: domain.SortByCreatedAt, Desc: true}}
		}
	case domain.SortRating:
		return domain.SortOrder{{Column: domain.SortByRating, Desc: true}}
	case domain.SortViews:
		return domain.SortOrder{{Column: domain.SortByReviewCount, Desc: true}}
	}

	return domain.SortOrder{
		{Column: domain.SortByRating, Desc: true},
		{Column: domain.SortByReviewCount, Desc: true},
	}
}
