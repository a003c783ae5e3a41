package services

import (
	"strings"

	"menu-bot/models"
)

// FilterCategories returns the categories and items visible for the given
// category filter and free-text query. activeCategoryID == "" means all
// categories. The query is matched case-insensitively against every
// localized name and description and the item code; an empty query matches
// everything. Categories left without items are dropped. Input order is kept
// and the input is not modified.
//
// lang is the display language; matching deliberately covers all languages
// so a customer can find "Bread" while browsing in Portuguese.
func FilterCategories(categories []models.MenuCategory, activeCategoryID, query string, lang models.Language) []models.MenuCategory {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.MenuCategory, 0, len(categories))
	for _, cat := range categories {
		if activeCategoryID != "" && cat.ID != activeCategoryID {
			continue
		}
		items := make([]models.MenuItem, 0, len(cat.Items))
		for _, it := range cat.Items {
			if matchesQuery(it, q) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, models.MenuCategory{ID: cat.ID, Title: cat.Title, Items: items})
	}
	return out
}

// matchesQuery expects q already lower-cased and trimmed.
func matchesQuery(it models.MenuItem, q string) bool {
	if q == "" {
		return true
	}
	for _, n := range it.Name.Values() {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}
	if it.Description != nil {
		for _, d := range it.Description.Values() {
			if strings.Contains(strings.ToLower(d), q) {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(it.Code), q)
}

// CountItems is the number of items across categories.
func CountItems(categories []models.MenuCategory) int {
	n := 0
	for _, c := range categories {
		n += len(c.Items)
	}
	return n
}
