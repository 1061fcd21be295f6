package handler

import (
	"github.com/gofiber/fiber/v2"

	"portfolio/internal/http/middleware"
	"portfolio/internal/service"
)

// Services bundles what the routes need.
type Services struct {
	Health       Pinger
	Visits       service.VisitService
	Preprints    service.PreprintService
	Publications service.PublicationService
	Content      service.ContentService
	Blog         service.BlogService
}

// RegisterRoutes attaches the JSON API, the health probes and, when pages is
// non-nil, the HTML site.
func RegisterRoutes(app *fiber.App, svc Services, pages *Pages) {
	app.Get("/health", HealthCheck(svc.Health))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.NoStore())
	api.Get("/arxiv", LatestPreprint(svc.Preprints))
	api.Get("/visits", CountVisit(svc.Visits))
	api.Get("/publications", ListPublications(svc.Publications))
	api.Get("/projects", ListProjects(svc.Content))
	api.Get("/pitfalls", ListPitfalls(svc.Content))
	api.Get("/blog", ListPosts(svc.Blog))
	api.Get("/blog/:slug", GetPost(svc.Blog))

	if pages == nil {
		return
	}
	app.Get("/sitemap.xml", Sitemap(pages.BaseURL, svc.Blog))
	app.Get("/", pages.Index)
	app.Get("/about", pages.About)
	app.Get("/projects", pages.Projects)
	app.Get("/publications", pages.PublicationsPage)
	app.Get("/blog", pages.BlogIndex)
	app.Get("/blog/:slug", pages.Post)
	app.Get("/blog/:slug/pdf", pages.PostPDF)
	app.Get("/contact", pages.Contact)
}
