package content

import (
	"sort"

	"portfolio/internal/model"
)

// Projects returns the projects in declaration order.
func (c *Catalog) Projects() []model.Project {
	return append([]model.Project(nil), c.projects...)
}

// ProjectTags returns the sorted set of tags used by any project.
func (c *Catalog) ProjectTags() []string {
	set := make(map[string]struct{})
	for _, p := range c.projects {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
