package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

type indexedProvider struct {
	id            string
	text          string
	category      domain.Category
	subcategories map[domain.Subcategory]struct{}
}

// MockTextIndex is an in-memory implementation of TextIndex for testing.
// Providers are returned in indexing order, standing in for relevance order.
type MockTextIndex struct {
	mu        sync.RWMutex
	providers []indexedProvider

	// Err, when set, is returned by every SearchProviders call
	Err error

	// SearchCalls counts SearchProviders invocations
	SearchCalls int
}

// NewMockTextIndex creates a new MockTextIndex
func NewMockTextIndex() *MockTextIndex {
	return &MockTextIndex{}
}

// Index adds a provider document to the in-memory index
func (m *MockTextIndex) Index(id, text string, category domain.Category, subcategories ...domain.Subcategory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := make(map[domain.Subcategory]struct{}, len(subcategories))
	for _, s := range subcategories {
		subs[s] = struct{}{}
	}
	m.providers = append(m.providers, indexedProvider{
		id:            id,
		text:          strings.ToLower(text),
		category:      category,
		subcategories: subs,
	})
}

func (m *MockTextIndex) SearchProviders(ctx context.Context, query string, category domain.Category, subcategories []domain.Subcategory, size int) ([]string, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if query == "" && category == "" {
		return []string{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	queryLower := strings.ToLower(query)
	var ids []string
	for _, p := range m.providers {
		if query != "" && !strings.Contains(p.text, queryLower) {
			continue
		}
		if category != "" && p.category != category {
			continue
		}
		if len(subcategories) > 0 && !matchesAny(p.subcategories, subcategories) {
			continue
		}
		ids = append(ids, p.id)
		if len(ids) == size {
			break
		}
	}
	return ids, nil
}

func matchesAny(have map[domain.Subcategory]struct{}, want []domain.Subcategory) bool {
	for _, s := range want {
		if _, ok := have[s]; ok {
			return true
		}
	}
	return false
}
