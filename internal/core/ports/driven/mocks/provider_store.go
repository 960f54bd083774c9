package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driven"
)

// MockProviderStore is an in-memory implementation of ProviderStore for
// testing. It mirrors the store contract closely enough to exercise the
// orchestrator: id/rating pre-filters, multi-key sorting, skip/limit
// pagination and a haversine-based proximity query.
type MockProviderStore struct {
	mu        sync.RWMutex
	providers map[string]*domain.Provider
	items     map[string][]*domain.ServiceItem // by provider id
	order     []string                         // insertion order of provider ids

	// Err, when set, is returned by every query method
	Err error

	// Call counters, used to assert short-circuit behaviour
	FindCalls  int
	NearCalls  int
	PriceCalls int
	ItemCalls  int
}

// NewMockProviderStore creates a new MockProviderStore
func NewMockProviderStore() *MockProviderStore {
	return &MockProviderStore{
		providers: make(map[string]*domain.Provider),
		items:     make(map[string][]*domain.ServiceItem),
	}
}

// AddProvider registers a provider document
func (m *MockProviderStore) AddProvider(p *domain.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.providers[p.ID] = p
}

// AddItem registers a line-item under its owning provider
func (m *MockProviderStore) AddItem(item *domain.ServiceItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ProviderID] = append(m.items[item.ProviderID], item)
}

func (m *MockProviderStore) FindWithCount(ctx context.Context, q driven.ProviderQuery, sortOrder domain.SortOrder, skip, limit int) ([]*domain.Provider, int, error) {
	m.mu.Lock()
	m.FindCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, 0, m.Err
	}

	m.mu.RLock()
	matched := m.filter(q)
	m.mu.RUnlock()

	sortProviders(matched, sortOrder)
	total := len(matched)
	return paginate(matched, skip, limit), total, nil
}

func (m *MockProviderStore) FindNear(ctx context.Context, origin domain.GeoPoint, maxDistance float64, q driven.ProviderQuery, sortOrder domain.SortOrder, skip, limit int) ([]*domain.Provider, error) {
	m.mu.Lock()
	m.NearCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	candidates := m.filter(q)
	m.mu.RUnlock()

	type withDistance struct {
		p *domain.Provider
		d float64
	}
	var near []withDistance
	for _, p := range candidates {
		if p.Address == nil {
			continue
		}
		d := haversineMeters(origin, p.Address.Location)
		if maxDistance > 0 && d > maxDistance {
			continue
		}
		near = append(near, withDistance{p, d})
	}

	sort.SliceStable(near, func(i, j int) bool { return near[i].d < near[j].d })
	results := make([]*domain.Provider, len(near))
	for i, wd := range near {
		results[i] = wd.p
	}
	if sortOrder != nil {
		sortProviders(results, sortOrder)
	}
	return paginate(results, skip, limit), nil
}

func (m *MockProviderStore) ItemsInPriceRange(ctx context.Context, min, max *float64) ([]*domain.ServiceItem, error) {
	m.mu.Lock()
	m.PriceCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.ServiceItem
	for _, id := range m.order {
		for _, item := range m.items[id] {
			if item.Price == nil {
				continue
			}
			if min != nil && *item.Price < *min {
				continue
			}
			if max != nil && *item.Price > *max {
				continue
			}
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockProviderStore) ItemsByProvider(ctx context.Context, providerID string) ([]*domain.ServiceItem, error) {
	m.mu.Lock()
	m.ItemCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[providerID], nil
}

// filter applies the provider-level pre-filter; callers hold the read lock.
func (m *MockProviderStore) filter(q driven.ProviderQuery) []*domain.Provider {
	allowed := map[string]struct{}{}
	for _, id := range q.IDs {
		allowed[id] = struct{}{}
	}

	var out []*domain.Provider
	for _, id := range m.order {
		p := m.providers[id]
		if q.IDs != nil {
			if _, ok := allowed[p.ID]; !ok {
				continue
			}
		}
		if q.MinRating > 0 && p.AverageRating < q.MinRating {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProviders(providers []*domain.Provider, order domain.SortOrder) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(providers, func(i, j int) bool {
		for _, f := range order {
			cmp := compareColumn(providers[i], providers[j], f.Column)
			if cmp == 0 {
				continue
			}
			if f.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareColumn(a, b *domain.Provider, col domain.SortColumn) int {
	switch col {
	case domain.SortByCreatedAt:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	case domain.SortByRating:
		return compareFloat(a.AverageRating, b.AverageRating)
	case domain.SortByReviewCount:
		return compareFloat(float64(a.ReviewCount), float64(b.ReviewCount))
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func paginate(providers []*domain.Provider, skip, limit int) []*domain.Provider {
	if skip >= len(providers) {
		return []*domain.Provider{}
	}
	end := skip + limit
	if end > len(providers) {
		end = len(providers)
	}
	return providers[skip:end]
}

const earthRadiusMeters = 6371000

func haversineMeters(a, b domain.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
