package handler

import (
	"errors"
	"path"
	"time"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/service"
	"portfolio/internal/view"
)

// Pages renders the HTML site.
type Pages struct {
	SiteTitle    string
	BaseURL      string
	Location     *time.Location
	Home         service.HomeService
	Content      service.ContentService
	Publications service.PublicationService
	Blog         service.BlogService
	Now          func() time.Time
}

func (p *Pages) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pages) render(c *fiber.Ctx, page, title string, data any) error {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	return c.Render(page, view.PageData{
		SiteTitle: p.SiteTitle,
		PageTitle: title,
		BaseURL:   p.BaseURL,
		Path:      c.Path(),
		Year:      p.now().In(loc).Year(),
		Data:      data,
	})
}

// Index renders the landing page.
func (p *Pages) Index(c *fiber.Ctx) error {
	home, err := p.Home.Home(c.UserContext(), p.now())
	if err != nil {
		return err
	}
	return p.render(c, "home", "", fiber.Map{"Home": home, "Profile": p.Content.Profile()})
}

// About renders the biography.
func (p *Pages) About(c *fiber.Ctx) error {
	return p.render(c, "about", "About", p.Content.Profile())
}

// Contact renders the contact links.
func (p *Pages) Contact(c *fiber.Ctx) error {
	return p.render(c, "contact", "Contact", p.Content.Profile())
}

// Projects renders the project list.
func (p *Pages) Projects(c *fiber.Ctx) error {
	return p.render(c, "projects", "Projects", fiber.Map{
		"Projects": p.Content.Projects(),
		"Tags":     p.Content.ProjectTags(),
	})
}

// PublicationsPage renders the publication list, or the fallback when the
// registry is unavailable.
func (p *Pages) PublicationsPage(c *fiber.Ctx) error {
	year := c.Query("year", service.AllYears)
	q := c.Query("q")
	list, err := p.Publications.List(c.UserContext(), service.PublicationFilter{Year: year, Query: q})
	if err != nil {
		return err
	}
	return p.render(c, "publications", "Publications", fiber.Map{"List": list, "Year": year, "Query": q})
}

// BlogIndex renders posts grouped by year.
func (p *Pages) BlogIndex(c *fiber.Ctx) error {
	return p.render(c, "blog", "Blog", p.Blog.ByYear())
}

// Post renders one post.
func (p *Pages) Post(c *fiber.Ctx) error {
	page, err := p.Blog.Get(c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	return p.render(c, "post", page.Post.Title, page)
}

// PostPDF redirects to a presigned URL or streams the document.
func (p *Pages) PostPDF(c *fiber.Ctx) error {
	pdf, err := p.Blog.OpenPDF(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	if pdf.URL != "" {
		return c.Redirect(pdf.URL, fiber.StatusFound)
	}
	c.Set(fiber.HeaderContentType, pdf.Info.ContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+path.Base(pdf.Info.Key)+`"`)
	size := int(pdf.Info.Size)
	if size <= 0 {
		size = -1
	}
	return c.SendStream(pdf.Body, size)
}
