// Package arxiv reads the newest preprint from an arXiv RSS listing.
//
// Only the first <item> of the feed is of interest, so the body is scanned
// with a few patterns instead of being decoded as a whole document. Feed
// bodies are cached for the revalidation window; failed fetches are never
// cached and every failure is reported to the caller.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"portfolio/internal/cache"
	"portfolio/internal/model"
	"portfolio/internal/upstream"
)

const (
	upstreamName = "arxiv"
	acceptHeader = "application/rss+xml, application/xml, text/xml;q=0.9, */*;q=0.8"
	// SnippetLen is how many characters of an unexpected body are echoed back.
	SnippetLen = 300
)

// ErrMissingFields is returned when the first item lacks a title or link.
var ErrMissingFields = errors.New("Parsed item but title/link missing.")

// StatusError is returned when the feed answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Fetch failed: %d", e.Code)
}

// NoItemError is returned when the body contains no <item> element.
type NoItemError struct {
	Snippet string
}

func (e *NoItemError) Error() string {
	return "No <item> found in arXiv RSS (unexpected response)."
}

var (
	itemRe  = regexp.MustCompile(`(?is)<item\b[^>]*>(.*?)</item>`)
	titleRe = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title>`)
	linkRe  = regexp.MustCompile(`(?is)<link\b[^>]*>(.*?)</link>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Fetcher is the outbound transport.
type Fetcher interface {
	Get(ctx context.Context, name, url string, header http.Header) (*upstream.Response, error)
}

// Config configures a Client.
type Config struct {
	FeedURL    string
	Source     string
	Revalidate time.Duration
}

// Client fetches and parses the feed.
type Client struct {
	cfg   Config
	http  Fetcher
	feeds *cache.TTL[[]byte]
}

// New returns a Client. A zero Revalidate disables caching.
func New(cfg Config, f Fetcher) *Client {
	return &Client{cfg: cfg, http: f, feeds: cache.New[[]byte](cfg.Revalidate)}
}

// Latest returns the first item of the feed labelled with the configured source.
func (c *Client) Latest(ctx context.Context) (model.Preprint, error) {
	res, err := c.feeds.Get(ctx, c.cfg.FeedURL, c.fetch)
	if err != nil {
		return model.Preprint{}, err
	}
	title, link, err := FirstItem(res.Value)
	if err != nil {
		return model.Preprint{}, err
	}
	return model.Preprint{Title: title, Link: link, Source: c.cfg.Source}, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	resp, err := c.http.Get(ctx, upstreamName, c.cfg.FeedURL, http.Header{"Accept": {acceptHeader}})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return resp.Body, nil
}

// FirstItem extracts the title and link of the first <item> in body.
func FirstItem(body []byte) (title, link string, err error) {
	m := itemRe.FindSubmatch(body)
	if m == nil {
		return "", "", &NoItemError{Snippet: Snippet(body)}
	}
	item := m[1]
	title = strings.TrimSpace(stripCDATA(submatch(titleRe, item)))
	link = strings.TrimSpace(stripCDATA(submatch(linkRe, item)))
	if title == "" || link == "" {
		return "", "", ErrMissingFields
	}
	return title, link, nil
}

// Snippet returns the first SnippetLen characters of body with whitespace
// runs collapsed to a single space.
func Snippet(body []byte) string {
	s := string(body)
	if utf8.RuneCountInString(s) > SnippetLen {
		s = string([]rune(s)[:SnippetLen])
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func submatch(re *regexp.Regexp, b []byte) string {
	m := re.FindSubmatch(b)
	if m == nil {
		return ""
	}
	return string(m[1])
}

func stripCDATA(s string) string {
	s = strings.ReplaceAll(s, "<![CDATA[", "")
	return strings.ReplaceAll(s, "]]>", "")
}
