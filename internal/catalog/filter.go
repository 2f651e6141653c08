package catalog

import (
	"slices"
	"strings"

	"wareg/internal/model"
)

// FilterMenus keeps the items whose category is in categories (any category when
// empty) and whose rating bucket equals rating (any rating when nil). Items without
// ratings never match a rating.
func FilterMenus(menus []model.MenuItem, categories []string, rating *int) []model.MenuItem {
	filtered := make([]model.MenuItem, 0, len(menus))

	for _, m := range menus {
		if len(categories) > 0 && !slices.Contains(categories, m.Category.Name) {
			continue
		}

		if rating != nil {
			bucket, ok := m.RatingBucket()
			if !ok || bucket != *rating {
				continue
			}
		}

		filtered = append(filtered, m)
	}

	return filtered
}

// MatchQuery keeps the items whose name contains query, ignoring case.
func MatchQuery(menus []model.MenuItem, query string) []model.MenuItem {
	q := strings.ToLower(query)
	matched := make([]model.MenuItem, 0, len(menus))

	for _, m := range menus {
		if strings.Contains(strings.ToLower(m.Name), q) {
			matched = append(matched, m)
		}
	}

	return matched
}
