package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
)

// MockQueryLog is an in-memory implementation of QueryLog for testing
type MockQueryLog struct {
	mu     sync.RWMutex
	counts map[string]int64

	// Err, when set, is returned by every call
	Err error
}

// NewMockQueryLog creates a new MockQueryLog
func NewMockQueryLog() *MockQueryLog {
	return &MockQueryLog{counts: make(map[string]int64)}
}

func (m *MockQueryLog) Record(ctx context.Context, term string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[term]++
	return nil
}

func (m *MockQueryLog) Top(ctx context.Context, n int) ([]domain.QueryCount, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.QueryCount, 0, len(m.counts))
	for term, count := range m.counts {
		out = append(out, domain.QueryCount{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}

// Count returns the recorded frequency of a term
func (m *MockQueryLog) Count(term string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[term]
}
