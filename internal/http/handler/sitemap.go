package handler

import (
	"encoding/xml"
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/service"
)

// sitemapPages are the fixed pages listed before the posts.
var sitemapPages = []string{"/", "/about", "/projects", "/publications", "/contact", "/blog"}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap lists the static pages and every post.
func Sitemap(baseURL string, blog service.BlogService) fiber.Handler {
	base := strings.TrimRight(baseURL, "/")
	return func(c *fiber.Ctx) error {
		set := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
		for _, p := range sitemapPages {
			set.URLs = append(set.URLs, sitemapURL{Loc: base + p})
		}
		for _, post := range blog.List() {
			set.URLs = append(set.URLs, sitemapURL{Loc: base + "/blog/" + post.Slug, LastMod: post.Date})
		}

		out, err := xml.MarshalIndent(set, "", "  ")
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		return c.Send(append([]byte(xml.Header), out...))
	}
}
