// Package catalog filters and paginates the project list for display.
//
// Everything here is a pure function of (projects, selected technologies, page).
// The selection and page number belong to whoever drives the view (an HTTP
// client, the CLI); see Browser for a stateful wrapper that models a UI.
package catalog

import "github.com/cobbinma/portfolio/internal/model"

// PageSize is the number of projects shown per page.
const PageSize = 3

// Filter returns the projects that carry every selected technology, in their
// original order. An empty selection matches every project.
//
// Titles are compared exactly: no case folding, no trimming.
func Filter(all []model.Project, selected []model.Technology) []model.Project {
	if len(selected) == 0 {
		return all
	}

	matching := make([]model.Project, 0, len(all))
	for _, p := range all {
		if hasAll(p, selected) {
			matching = append(matching, p)
		}
	}
	return matching
}

// PageCount returns how many pages are needed to show n items, i.e.
// ceil(len(matching)/pageSize). It is 0 when nothing matches. A non-positive
// pageSize falls back to PageSize.
func PageCount[T any](matching []T, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return (len(matching) + pageSize - 1) / pageSize
}

// PageSlice returns the 1-indexed page of items. Pages past the end, and pages
// below 1, are empty rather than an error.
func PageSlice[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	// Checked before multiplying so a huge page cannot overflow start.
	if page < 1 || page > PageCount(items, pageSize) {
		return []T{}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func hasAll(p model.Project, selected []model.Technology) bool {
	for _, want := range selected {
		if !hasTechnology(p, want) {
			return false
		}
	}
	return true
}

func hasTechnology(p model.Project, want model.Technology) bool {
	for _, have := range p.Technologies {
		if have.SameTag(want) {
			return true
		}
	}
	return false
}
