// Package content holds the site's hand-maintained tables (projects, blog
// posts, pitfall cards, facts and the owner profile). The tables are YAML
// files embedded into the binary and are read-only after Load.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"portfolio/internal/model"
)

//go:embed data/*.yaml
var embedded embed.FS

// ContactLink is one row of the contact page.
type ContactLink struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
	Href  string `yaml:"href" json:"href"`
}

// Profile is the site owner's biography.
type Profile struct {
	Name    string        `yaml:"name" json:"name"`
	Tagline string        `yaml:"tagline" json:"tagline"`
	About   []string      `yaml:"about" json:"about"`
	Contact []ContactLink `yaml:"contact" json:"contact"`
}

// Catalog is the in-memory, read-only view of every table.
type Catalog struct {
	profile  Profile
	projects []model.Project
	posts    []model.BlogPost
	pitfalls []model.Pitfall
	facts    []string
}

// Load reads the embedded tables.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS reads profile.yaml, projects.yaml, blogs.yaml, pitfalls.yaml and
// facts.yaml from fsys and validates them.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	tables := []struct {
		name string
		dst  any
	}{
		{"profile.yaml", &c.profile},
		{"projects.yaml", &c.projects},
		{"blogs.yaml", &c.posts},
		{"pitfalls.yaml", &c.pitfalls},
		{"facts.yaml", &c.facts},
	}
	for _, t := range tables {
		raw, err := fs.ReadFile(fsys, t.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", t.name, err)
		}
		if err := yaml.Unmarshal(raw, t.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.name, err)
		}
	}

	if err := validatePosts(c.posts); err != nil {
		return nil, err
	}
	for i := range c.pitfalls {
		p := &c.pitfalls[i]
		if p.Category == "" || p.Title == "" {
			return nil, fmt.Errorf("pitfall %d: category and title are required", i+1)
		}
		p.ID = PitfallID(p.Category, i)
	}
	return c, nil
}

func validatePosts(posts []model.BlogPost) error {
	seen := make(map[string]struct{}, len(posts))
	for i, p := range posts {
		if p.Slug == "" || p.Title == "" || p.File == "" {
			return fmt.Errorf("blog post %d: slug, title and file are required", i+1)
		}
		key := strings.ToLower(p.Slug)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("blog post %q: duplicate slug", p.Slug)
		}
		seen[key] = struct{}{}
		if _, err := time.Parse(time.DateOnly, p.Date); err != nil {
			return fmt.Errorf("blog post %q: date %q is not YYYY-MM-DD", p.Slug, p.Date)
		}
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, spells out "&" and collapses every other
// non-alphanumeric run into a single dash.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// PitfallID derives the stable card id from its category and zero-based index.
func PitfallID(category string, index int) string {
	return fmt.Sprintf("%s-%03d", Slugify(category), index+1)
}

// Profile returns the owner profile.
func (c *Catalog) Profile() Profile {
	return c.profile
}

// FactOfTheDay picks a fact that changes once per UTC day and is the same for
// every visitor on that day.
func (c *Catalog) FactOfTheDay(now time.Time) string {
	if len(c.facts) == 0 {
		return ""
	}
	idx := (now.Unix() / 86400) % int64(len(c.facts))
	if idx < 0 {
		idx += int64(len(c.facts))
	}
	return c.facts[idx]
}
