package domain

import "testing"

func TestSubcategoriesFor(t *testing.T) {
	subs := SubcategoriesFor(CategoryPlumbing)
	if len(subs) == 0 {
		t.Fatal("expected subcategories for plumbing")
	}

	if subs := SubcategoriesFor("unknown"); len(subs) != 0 {
		t.Errorf("expected no subcategories for unknown category, got %v", subs)
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(CategoryCleaning) {
		t.Error("cleaning should be a valid category")
	}
	if ValidCategory("bungee_jumping") {
		t.Error("bungee_jumping should not be a valid category")
	}
}

func TestCategories_StableOrder(t *testing.T) {
	first := Categories()
	second := Categories()

	if len(first) != len(AllowedSubcategories) {
		t.Fatalf("expected %d categories, got %d", len(AllowedSubcategories), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("category order is not stable: %v vs %v", first, second)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i-1] >= first[i] {
			t.Errorf("categories not sorted at index %d: %v", i, first)
		}
	}
}
