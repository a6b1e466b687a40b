package model

import "strings"

// RecipeFilter derives the displayed subset of a recipe list. Search is a
// case-insensitive substring over title or description, Category an exact
// match or CategoryAll.
type RecipeFilter struct {
	Search   string
	Category Category
}

// IsZero reports whether the filter matches everything
func (f RecipeFilter) IsZero() bool {
	return f.Search == "" && f.matchesAllCategories()
}

func (f RecipeFilter) matchesAllCategories() bool {
	return f.Category == "" || f.Category == CategoryAll
}

// Match applies both predicates to one recipe
func (f RecipeFilter) Match(r *Recipe) bool {
	return f.matchSearch(r) && f.matchCategory(r)
}

func (f RecipeFilter) matchSearch(r *Recipe) bool {
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	return r.Description != "" && strings.Contains(strings.ToLower(r.Description), needle)
}

func (f RecipeFilter) matchCategory(r *Recipe) bool {
	return f.matchesAllCategories() || r.Category == f.Category
}

// Apply returns the matching recipes in input order. The result is never nil.
func (f RecipeFilter) Apply(recipes []Recipe) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for i := range recipes {
		if f.Match(&recipes[i]) {
			out = append(out, recipes[i])
		}
	}
	return out
}
