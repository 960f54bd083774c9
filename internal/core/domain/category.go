package domain

import "sort"

// Category is a top-level business category
type Category string

// Subcategory is a service specialization under a Category
type Subcategory string

// Business categories
const (
	CategoryCleaning    Category = "cleaning"
	CategoryPlumbing    Category = "plumbing"
	CategoryElectrical  Category = "electrical"
	CategoryLandscaping Category = "landscaping"
	CategoryHandyman    Category = "handyman"
	CategoryMoving      Category = "moving"
	CategoryHVAC        Category = "hvac"
	CategoryPestControl Category = "pest_control"
)

// AllowedSubcategories is the fixed category -> subcategory taxonomy.
// Provider documents are validated against it at write time; the search
// engine trusts stored data and only uses the table to expand a category
// filter into its subcategory tokens.
var AllowedSubcategories = map[Category][]Subcategory{
	CategoryCleaning:    {"house_cleaning", "deep_cleaning", "carpet_cleaning", "window_cleaning"},
	CategoryPlumbing:    {"leak_repair", "drain_cleaning", "water_heater", "pipe_installation"},
	CategoryElectrical:  {"wiring", "lighting", "panel_upgrade", "ev_charger"},
	CategoryLandscaping: {"lawn_care", "tree_trimming", "garden_design", "irrigation"},
	CategoryHandyman:    {"furniture_assembly", "painting", "drywall_repair"},
	CategoryMoving:      {"local_moving", "long_distance_moving", "packing"},
	CategoryHVAC:        {"ac_repair", "heating_repair", "duct_cleaning"},
	CategoryPestControl: {"extermination", "rodent_control", "termite_inspection"},
}

// SubcategoriesFor returns the allowed subcategories for a category.
// Unknown categories yield an empty list.
func SubcategoriesFor(category Category) []Subcategory {
	return AllowedSubcategories[category]
}

// ValidCategory reports whether the category is part of the taxonomy.
func ValidCategory(category Category) bool {
	_, ok := AllowedSubcategories[category]
	return ok
}

// Categories returns the taxonomy keys in a stable order.
func Categories() []Category {
	keys := make([]Category, 0, len(AllowedSubcategories))
	for c := range AllowedSubcategories {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
