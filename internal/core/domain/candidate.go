package domain

import "sort"

// CandidateSet is the request-scoped working set of provider ids still
// eligible after applying narrowing filters. It starts unconstrained (every
// provider is a candidate) and becomes constrained the first time a narrowing
// source reports its ids. Once constrained it only ever shrinks: subsequent
// sources intersect, never union.
type CandidateSet struct {
	constrained bool
	ids         map[string]struct{}
}

// NewCandidateSet returns an unconstrained set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{}
}

// Narrow intersects the set with ids from a narrowing source. On the first
// call the set simply becomes that source's ids.
func (s *CandidateSet) Narrow(ids []string) {
	if !s.constrained {
		s.constrained = true
		s.ids = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			s.ids[id] = struct{}{}
		}
		return
	}

	next := make(map[string]struct{}, len(s.ids))
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			next[id] = struct{}{}
		}
	}
	s.ids = next
}

// Constrained reports whether any narrowing source has run.
func (s *CandidateSet) Constrained() bool {
	return s.constrained
}

// Empty reports whether the set is constrained down to nothing. An
// unconstrained set is never empty.
func (s *CandidateSet) Empty() bool {
	return s.constrained && len(s.ids) == 0
}

// Len returns the number of candidates; only meaningful once constrained.
func (s *CandidateSet) Len() int {
	return len(s.ids)
}

// Contains reports whether id survived narrowing. An unconstrained set
// contains everything.
func (s *CandidateSet) Contains(id string) bool {
	if !s.constrained {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

// IDs returns the candidate ids in sorted order so downstream store queries
// are deterministic for identical filters.
func (s *CandidateSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
