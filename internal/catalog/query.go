package catalog

import (
	"cmp"
	"slices"

	"folio.dev/internal/models"
)

// Compare orders projects by the declared display order: Order ascending,
// then newest CreatedAt first, then ID ascending.
func Compare(a, b models.Project) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortProjects sorts records in place by Compare
func SortProjects(records []models.Project) {
	slices.SortStableFunc(records, Compare)
}

// Filter returns the records matching c in declared order.
// The input is not modified; the result is never nil.
func Filter(records []models.Project, c Criteria) []models.Project {
	out := make([]models.Project, 0, len(records))
	for _, p := range records {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	SortProjects(out)
	return out
}
