package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/arxiv"
	"portfolio/internal/service"
)

// preprintPayload is the /api/arxiv body. Success carries title, link and
// source; failures carry error and, when the feed had no item, a snippet.
type preprintPayload struct {
	OK      bool   `json:"ok"`
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Source  string `json:"source,omitempty"`
	Error   string `json:"error,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type visitsPayload struct {
	Count int64 `json:"count"`
}

// LatestPreprint returns the newest item of the preprint feed.
//
// @Summary Latest arXiv preprint
// @Tags api
// @Produce json
// @Success 200 {object} preprintPayload
// @Failure 500 {object} preprintPayload
// @Router /api/arxiv [get]
func LatestPreprint(svc service.PreprintService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Latest(c.UserContext())
		if err != nil {
			body := preprintPayload{OK: false, Error: err.Error()}
			var noItem *arxiv.NoItemError
			if errors.As(err, &noItem) {
				body.Snippet = noItem.Snippet
			}
			return c.Status(fiber.StatusInternalServerError).JSON(body)
		}
		return c.JSON(preprintPayload{OK: true, Title: p.Title, Link: p.Link, Source: p.Source})
	}
}

// CountVisit records a visit and returns the running total.
//
// @Summary Increment the visit counter
// @Tags api
// @Produce json
// @Success 200 {object} visitsPayload
// @Failure 500 {object} errorPayload
// @Router /api/visits [get]
func CountVisit(svc service.VisitService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Hit(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(visitsPayload{Count: n})
	}
}

// ListPublications returns the filtered publication list.
//
// @Summary List publications
// @Tags api
// @Produce json
// @Param year query string false "All, 0 for unknown, or a year"
// @Param q query string false "title substring"
// @Success 200 {object} service.PublicationList
// @Router /api/publications [get]
func ListPublications(svc service.PublicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext(), service.PublicationFilter{
			Year:  c.Query("year", service.AllYears),
			Query: c.Query("q"),
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(list)
	}
}

// ListProjects returns the projects and their tag set.
//
// @Summary List projects
// @Tags api
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/projects [get]
func ListProjects(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"items": svc.Projects(), "tags": svc.ProjectTags()})
	}
}

// ListPitfalls filters the "debug your science" cards.
//
// @Summary List pitfall cards
// @Tags api
// @Produce json
// @Param category query string false "category, All for any"
// @Param q query string false "free-text query"
// @Success 200 {object} service.PitfallResult
// @Router /api/pitfalls [get]
func ListPitfalls(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Pitfalls(service.PitfallQuery{
			Category: c.Query("category"),
			Query:    c.Query("q"),
		}))
	}
}

// ListPosts returns blog posts newest first, grouped by year.
//
// @Summary List blog posts
// @Tags api
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/blog [get]
func ListPosts(svc service.BlogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"items": svc.List(), "years": svc.ByYear()})
	}
}

// GetPost returns one post and its related posts.
//
// @Summary Get a blog post
// @Tags api
// @Produce json
// @Param slug path string true "post slug, case-insensitive"
// @Success 200 {object} service.BlogPage
// @Failure 404 {object} errorPayload
// @Router /api/blog/{slug} [get]
func GetPost(svc service.BlogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.Get(c.Params("slug"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(page)
	}
}
