package domain

import (
	"errors"
	"testing"
)

func TestSearchFilters_ApplyDefaults(t *testing.T) {
	var f SearchFilters
	f.ApplyDefaults()

	if f.Sort != SortRelevance {
		t.Errorf("expected default sort %q, got %q", SortRelevance, f.Sort)
	}
	if f.Page != 1 {
		t.Errorf("expected default page 1, got %d", f.Page)
	}
	if f.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", f.Limit)
	}
}

func TestSearchFilters_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	f := SearchFilters{Sort: SortRating, Page: 3, Limit: 25}
	f.ApplyDefaults()

	if f.Sort != SortRating || f.Page != 3 || f.Limit != 25 {
		t.Errorf("explicit values should survive defaults, got %+v", f)
	}
}

func TestParseLocation(t *testing.T) {
	pt, err := ParseLocation("-122.4,37.8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lng != -122.4 || pt.Lat != 37.8 {
		t.Errorf("expected (-122.4, 37.8), got (%v, %v)", pt.Lng, pt.Lat)
	}
}

func TestParseLocation_Whitespace(t *testing.T) {
	pt, err := ParseLocation(" 10.5 , -3.25 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lng != 10.5 || pt.Lat != -3.25 {
		t.Errorf("expected (10.5, -3.25), got (%v, %v)", pt.Lng, pt.Lat)
	}
}

func TestParseLocation_Invalid(t *testing.T) {
	inputs := []string{"", "1.0", "a,b", "1.0,2.0,3.0", "1.0;2.0", "nan-ish,"}

	for _, in := range inputs {
		if _, err := ParseLocation(in); !errors.Is(err, ErrInvalidLocation) {
			t.Errorf("ParseLocation(%q): expected ErrInvalidLocation, got %v", in, err)
		}
	}
}

func TestEmptyPage(t *testing.T) {
	p := EmptyPage(2, 20)

	if p.Page != 2 || p.Limit != 20 || p.Total != 0 {
		t.Errorf("unexpected envelope: %+v", p)
	}
	if p.Providers == nil || len(p.Providers) != 0 {
		t.Error("providers should be an empty, non-nil list")
	}
}
