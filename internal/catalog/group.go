package catalog

import (
	"cmp"
	"slices"

	"folio.dev/internal/models"
)

// GroupByTag buckets each record under every tag it carries.
// A record appears at most once per bucket and records without tags
// appear nowhere. Small buckets are kept; callers decide what to show.
func GroupByTag(records []models.Project) map[string][]models.Project {
	groups := make(map[string][]models.Project)
	for _, p := range records {
		seen := make(map[string]bool, len(p.Tags))
		for _, tag := range p.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			groups[tag] = append(groups[tag], p)
		}
	}
	return groups
}

// SortedTags returns the keys of groups in lexical order
func SortedTags(groups map[string][]models.Project) []string {
	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// RelatedGroups holds projects sharing a category or a client with a reference project
type RelatedGroups struct {
	Category   string           `json:"category,omitempty"`
	ByCategory []models.Project `json:"by_category"`
	Client     string           `json:"client,omitempty"`
	ByClient   []models.Project `json:"by_client"`
}

// Related groups records by the reference's category and client.
// The reference itself is excluded by ID, and an empty category or client
// on the reference yields an empty bucket.
func Related(ref models.Project, records []models.Project) RelatedGroups {
	g := RelatedGroups{
		Category:   ref.Category,
		ByCategory: []models.Project{},
		Client:     ref.Client,
		ByClient:   []models.Project{},
	}
	for _, p := range records {
		if p.ID == ref.ID {
			continue
		}
		if ref.Category != "" && p.Category == ref.Category {
			g.ByCategory = append(g.ByCategory, p)
		}
		if ref.Client != "" && p.Client == ref.Client {
			g.ByClient = append(g.ByClient, p)
		}
	}
	return g
}

// Facets are the distinct filter values present in a record set
type Facets struct {
	Roles      []string `json:"roles"`
	Clients    []string `json:"clients"`
	Categories []string `json:"categories"`
	Years      []string `json:"years"`
	Tags       []string `json:"tags"`
}

// BuildFacets collects distinct non-empty values in first-seen order
func BuildFacets(records []models.Project) Facets {
	f := Facets{
		Roles:      []string{},
		Clients:    []string{},
		Categories: []string{},
		Years:      []string{},
		Tags:       []string{},
	}
	seen := make(map[string]map[string]bool)
	add := func(dst *[]string, kind, v string) {
		if v == "" {
			return
		}
		if seen[kind] == nil {
			seen[kind] = make(map[string]bool)
		}
		if seen[kind][v] {
			return
		}
		seen[kind][v] = true
		*dst = append(*dst, v)
	}

	for _, p := range records {
		add(&f.Roles, KeyRole, p.Role)
		add(&f.Clients, KeyClient, p.Client)
		add(&f.Categories, "category", p.Category)
		add(&f.Years, KeyYear, p.Year)
		for _, tag := range p.Tags {
			add(&f.Tags, KeyTag, tag)
		}
	}
	return f
}

// Featured returns the featured records ordered by FeaturedOrder, then declared order
func Featured(records []models.Project) []models.Project {
	out := make([]models.Project, 0)
	for _, p := range records {
		if p.Featured {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Project) int {
		if c := cmp.Compare(a.FeaturedOrder, b.FeaturedOrder); c != 0 {
			return c
		}
		return Compare(a, b)
	})
	return out
}
