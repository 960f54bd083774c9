package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SortKey is the caller-requested sort preference
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortViews     SortKey = "views"
)

// SortColumn enumerates the sortable provider fields
type SortColumn string

const (
	SortByCreatedAt   SortColumn = "created_at"
	SortByRating      SortColumn = "rating"
	SortByReviewCount SortColumn = "review_count"
	// SortByDistance is only meaningful in the proximity pipeline
	SortByDistance SortColumn = "distance"
)

// SortField is one (column, direction) tie-break pair
type SortField struct {
	Column SortColumn
	Desc   bool
}

// SortOrder is an ordered list of tie-break pairs
type SortOrder []SortField

// SearchFilters is the validated input to a search resolution.
// All fields are optional except Sort, Page and Limit, which carry defaults.
type SearchFilters struct {
	Query         string        `json:"q,omitempty"`
	Category      Category      `json:"category,omitempty"`
	Subcategories []Subcategory `json:"subcategory,omitempty"`
	Location      string        `json:"location,omitempty"`
	Rating        float64       `json:"rating,omitempty" validate:"gte=0,lte=5"`
	PriceMin      *float64      `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax      *float64      `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	Distance      int           `json:"distance,omitempty" validate:"gte=0"`
	Sort          SortKey       `json:"sort,omitempty" validate:"omitempty,oneof=relevance rating views"`
	Page          int           `json:"page,omitempty" validate:"gte=0"`
	Limit         int           `json:"limit,omitempty" validate:"gte=0,lte=100"`
	UserID        string        `json:"-"`
}

// ApplyDefaults fills the defaulted fields: sort "relevance", page 1, limit 10.
func (f *SearchFilters) ApplyDefaults() {
	if f.Sort == "" {
		f.Sort = SortRelevance
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
}

// SearchPage is the paginated result envelope
type SearchPage struct {
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
	Total     int                `json:"total"`
	Providers []*ProviderSummary `json:"providers"`
}

// EmptyPage returns the canonical no-matches envelope. "No matches" is not
// an error.
func EmptyPage(page, limit int) *SearchPage {
	return &SearchPage{
		Page:      page,
		Limit:     limit,
		Total:     0,
		Providers: []*ProviderSummary{},
	}
}

// QueryCount is a free-text search term with its observed frequency
type QueryCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// ParseLocation parses a "lng,lat" pair of comma-separated floats.
// A parse failure is a user-correctable error, surfaced as ErrInvalidLocation.
func ParseLocation(s string) (GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}

	return GeoPoint{Lng: lng, Lat: lat}, nil
}
