package content

import (
	"sort"
	"strings"

	"portfolio/internal/model"
)

// FeaturedPitfalls is how many cards the home page shows before "view all".
const FeaturedPitfalls = 8

// Pitfalls returns every card in declaration order.
func (c *Catalog) Pitfalls() []model.Pitfall {
	return append([]model.Pitfall(nil), c.pitfalls...)
}

// PitfallByID looks up a card by its derived id.
func (c *Catalog) PitfallByID(id string) (model.Pitfall, bool) {
	for _, p := range c.pitfalls {
		if p.ID == id {
			return p, true
		}
	}
	return model.Pitfall{}, false
}

// PitfallCategories returns the "All" facet followed by every category,
// most populated first. Equal counts keep first-seen order.
func (c *Catalog) PitfallCategories() []model.CategoryCount {
	var cats []model.CategoryCount
	index := make(map[string]int)
	for _, p := range c.pitfalls {
		i, ok := index[p.Category]
		if !ok {
			i = len(cats)
			index[p.Category] = i
			cats = append(cats, model.CategoryCount{Category: p.Category})
		}
		cats[i].Count++
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Count > cats[j].Count })
	return append([]model.CategoryCount{{Category: AllCategories, Count: len(c.pitfalls)}}, cats...)
}

// AllCategories is the facet that disables category filtering.
const AllCategories = "All"

// FilterPitfalls keeps the cards in category (AllCategories or "" for any)
// whose text contains query, case-insensitively.
func (c *Catalog) FilterPitfalls(category, query string) []model.Pitfall {
	q := normalize(query)
	out := make([]model.Pitfall, 0, len(c.pitfalls))
	for _, p := range c.pitfalls {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" {
			hay := normalize(strings.Join([]string{p.Category, p.Title, p.Tag, p.Mistake, p.Result, p.Fix}, " "))
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
