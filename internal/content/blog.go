package content

import (
	"net/url"
	"sort"
	"strings"

	"portfolio/internal/model"
)

// YearGroup is a run of posts published in the same year.
type YearGroup struct {
	Year  string           `json:"year"`
	Posts []model.BlogPost `json:"posts"`
}

// Posts returns the posts in declaration order.
func (c *Catalog) Posts() []model.BlogPost {
	return append([]model.BlogPost(nil), c.posts...)
}

// SortedPosts returns the posts newest first.
func (c *Catalog) SortedPosts() []model.BlogPost {
	out := c.Posts()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// LatestPost returns the most recent post.
func (c *Catalog) LatestPost() (model.BlogPost, bool) {
	sorted := c.SortedPosts()
	if len(sorted) == 0 {
		return model.BlogPost{}, false
	}
	return sorted[0], true
}

// PostsByYear groups SortedPosts by year, newest year first.
func (c *Catalog) PostsByYear() []YearGroup {
	var groups []YearGroup
	for _, p := range c.SortedPosts() {
		y := p.Year()
		if n := len(groups); n > 0 && groups[n-1].Year == y {
			groups[n-1].Posts = append(groups[n-1].Posts, p)
			continue
		}
		groups = append(groups, YearGroup{Year: y, Posts: []model.BlogPost{p}})
	}
	return groups
}

// GetItem resolves a raw route slug: it is URL-decoded, trimmed and compared
// case-insensitively against the catalog.
func (c *Catalog) GetItem(slugRaw string) (model.BlogPost, bool) {
	i := c.indexOf(slugRaw)
	if i < 0 {
		return model.BlogPost{}, false
	}
	return c.posts[i], true
}

func (c *Catalog) indexOf(slugRaw string) int {
	slug, err := url.PathUnescape(slugRaw)
	if err != nil {
		slug = slugRaw
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	for i, p := range c.posts {
		if strings.ToLower(p.Slug) == slug {
			return i
		}
	}
	return -1
}

// Related returns up to max posts for the reading list under a post: its
// neighbours in declaration order first, then the remaining posts in order.
func (c *Catalog) Related(slug string, max int) []model.BlogPost {
	cur := c.indexOf(slug)
	if cur < 0 || max <= 0 {
		return nil
	}

	picked := make(map[int]bool, max)
	var related []model.BlogPost
	add := func(i int) {
		if len(related) < max && !picked[i] {
			picked[i] = true
			related = append(related, c.posts[i])
		}
	}

	if cur > 0 {
		add(cur - 1)
	}
	if cur < len(c.posts)-1 {
		add(cur + 1)
	}
	for i := range c.posts {
		if i != cur {
			add(i)
		}
	}
	return related
}
