package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Address is a provider's physical address with its geocoded location
type Address struct {
	Street   string   `json:"street"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Zip      string   `json:"zip"`
	Location GeoPoint `json:"location"`
}

// Provider represents a service provider as read from the structured store.
// The search core never writes providers; CRUD lives elsewhere.
type Provider struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Category      map[Category][]Subcategory `json:"category"`
	Address       *Address                   `json:"address,omitempty"`
	Phone         string                     `json:"phone"`
	Website       string                     `json:"website,omitempty"`
	Image         string                     `json:"image,omitempty"`
	AverageRating float64                    `json:"average_rating"`
	ReviewCount   int                        `json:"review_count"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ServiceItem is a priced line-item offered by a provider.
// Price is nil when the item has no published price.
type ServiceItem struct {
	ID          string   `json:"id"`
	ProviderID  string   `json:"provider_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
}

// ProviderSummary is the display projection of a provider returned by search.
// Constructed fresh per query result, never persisted.
type ProviderSummary struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Provider     string        `json:"provider"`
	Initials     string        `json:"providerInitials"`
	Description  string        `json:"description"`
	Rating       float64       `json:"rating"`
	Reviews      int           `json:"reviews"`
	Image        string        `json:"image"`
	Price        string        `json:"price"`
	PriceRange   [2]float64    `json:"priceRange"`
	Location     string        `json:"location"`
	Categories   []Subcategory `json:"categories"`
	MainCategory Category      `json:"mainCategory"`
	AvailableNow bool          `json:"availableNow"`
}

// PlaceholderImage is used for providers without an uploaded image.
const PlaceholderImage = "/placeholder.svg?height=200&width=300"

// Sentinel values for providers with missing address or category data.
const (
	UnknownLocality = "Unknown"
	GeneralCategory = Category("General")
)

// Initials derives up to two uppercase initials from the first two
// whitespace-separated words of a display name.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r := []rune(word)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return b.String()
}

// FormatPriceRange aggregates line-item prices into a display string and a
// [min,max] numeric range:
//
//	no prices  -> "$0", [0,0]
//	min == max -> "$X.XX", [x,x]
//	otherwise  -> "$min-$max/hr" (integer-rounded), [min,max]
func FormatPriceRange(prices []float64) (string, [2]float64) {
	if len(prices) == 0 {
		return "$0", [2]float64{0, 0}
	}

	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	if min == max {
		return fmt.Sprintf("$%.2f", min), [2]float64{min, max}
	}
	return fmt.Sprintf("$%.0f-$%.0f/hr", min, max), [2]float64{min, max}
}

// SortedCategories returns the provider's category keys in a stable order.
// Map iteration order would otherwise leak into the projection and break
// result idempotence.
func (p *Provider) SortedCategories() []Category {
	keys := make([]Category, 0, len(p.Category))
	for c := range p.Category {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
