// Package model contains the domain types shared by the content catalog,
// the upstream clients and the HTTP layer.
package model

// Project is a hand-maintained portfolio entry.
type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Href        string   `json:"href" yaml:"href"`
}

// BlogPost is an essay published as a PDF. Slug is the routing key.
type BlogPost struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"` // YYYY-MM-DD
	File        string `json:"file" yaml:"file"` // path under the static root
	Description string `json:"description,omitempty" yaml:"description"`
}

// Year returns the four-digit year prefix of Date.
func (p BlogPost) Year() string {
	if len(p.Date) < 4 {
		return ""
	}
	return p.Date[:4]
}

// Pitfall is one "debug your science" card. ID is derived from the category
// and the card's position when the catalog is loaded; it is never stored.
type Pitfall struct {
	ID       string `json:"id" yaml:"-"`
	Category string `json:"category" yaml:"category"`
	Title    string `json:"title" yaml:"title"`
	Mistake  string `json:"mistake" yaml:"mistake"`
	Result   string `json:"result" yaml:"result"`
	Fix      string `json:"fix" yaml:"fix"`
	Tag      string `json:"tag" yaml:"tag"`
}

// CategoryCount is a pitfall category facet.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Publication is a normalized work from the researcher registry.
type Publication struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Year    *int    `json:"year"`
	Type    *string `json:"type"`
	Link    *string `json:"link"`
	HasLink bool    `json:"hasLink"`
}

// Preprint is the latest item of the preprint feed.
type Preprint struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}
