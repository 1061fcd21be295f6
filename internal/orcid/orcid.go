// Package orcid fetches a researcher's works from the ORCID public API and
// normalizes them into publications.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"portfolio/internal/cache"
	"portfolio/internal/model"
	"portfolio/internal/upstream"
)

const upstreamName = "orcid"

// StatusError is returned when the registry answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orcid: unexpected status %d", e.Code)
}

// Value is ORCID's {"value": ...} wrapper.
type Value struct {
	Value string `json:"value"`
}

// ExternalID is a work identifier such as a DOI or PMID.
type ExternalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
	URL   *Value `json:"external-id-url"`
}

// ExternalIDs wraps the external-id list.
type ExternalIDs struct {
	ExternalID []ExternalID `json:"external-id"`
}

// Title wraps the work title.
type Title struct {
	Title *Value `json:"title"`
}

// PublicationDate holds the date parts; only the year is read.
type PublicationDate struct {
	Year *Value `json:"year"`
}

// WorkSummary is one entry of a work group.
type WorkSummary struct {
	PutCode         int64            `json:"put-code"`
	Title           *Title           `json:"title"`
	PublicationDate *PublicationDate `json:"publication-date"`
	ExternalIDs     *ExternalIDs     `json:"external-ids"`
	URL             *Value           `json:"url"`
	Type            string           `json:"type"`
}

// Group collects the summaries ORCID considers the same work.
type Group struct {
	WorkSummary []WorkSummary `json:"work-summary"`
}

// Works is the subset of the /works response that is read.
type Works struct {
	Group []Group `json:"group"`
}

// Fetcher is the outbound transport.
type Fetcher interface {
	Get(ctx context.Context, name, url string, header http.Header) (*upstream.Response, error)
}

// Config configures a Client.
type Config struct {
	ID         string
	APIBase    string
	Revalidate time.Duration
}

// Client loads normalized publications, keeping the last good list for the
// revalidation window and serving it stale while the registry is failing.
type Client struct {
	cfg   Config
	http  Fetcher
	works *cache.TTL[[]model.Publication]
}

// New returns a Client.
func New(cfg Config, f Fetcher) *Client {
	return &Client{
		cfg:   cfg,
		http:  f,
		works: cache.New[[]model.Publication](cfg.Revalidate, cache.ServeStale()),
	}
}

// WorksURL is the public works endpoint for the configured identifier.
func (c *Client) WorksURL() string {
	return strings.TrimRight(c.cfg.APIBase, "/") + "/" + c.cfg.ID + "/works"
}

// Publications returns the sorted publication list.
func (c *Client) Publications(ctx context.Context) (cache.Result[[]model.Publication], error) {
	return c.works.Get(ctx, c.cfg.ID, c.fetch)
}

func (c *Client) fetch(ctx context.Context) ([]model.Publication, error) {
	resp, err := c.http.Get(ctx, upstreamName, c.WorksURL(), http.Header{"Accept": {"application/json"}})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	var w Works
	if err := json.Unmarshal(resp.Body, &w); err != nil {
		return nil, fmt.Errorf("decode works: %w", err)
	}
	return Normalize(w), nil
}

// Normalize flattens the groups, drops untitled works and sorts by year
// descending (unknown years last) then title.
func Normalize(w Works) []model.Publication {
	out := make([]model.Publication, 0)
	for _, g := range w.Group {
		for _, s := range g.WorkSummary {
			title := s.title()
			if title == "" {
				continue
			}
			link := BestLink(s.ExternalIDs.list(), s.URL.get())
			out = append(out, model.Publication{
				ID:      s.PutCode,
				Title:   title,
				Year:    ParseYear(s.year()),
				Type:    FormatType(s.Type),
				Link:    link,
				HasLink: link != nil,
			})
		}
	}
	Sort(out)
	return out
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// Sort orders publications by year descending, nil years counting as 0, then
// by title in English collation order.
func Sort(pubs []model.Publication) {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	sort.SliceStable(pubs, func(i, j int) bool {
		yi, yj := yearOrZero(pubs[i].Year), yearOrZero(pubs[j].Year)
		if yi != yj {
			return yi > yj
		}
		return collator.CompareString(pubs[i].Title, pubs[j].Title) < 0
	})
}

func yearOrZero(y *int) int {
	if y == nil {
		return 0
	}
	return *y
}

// ParseYear reads the leading integer of s, nil when there is none.
func ParseYear(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}

// BestLink picks the DOI URL, else a doi.org URL built from the DOI value,
// else the first external-id URL, else the work URL.
func BestLink(ids []ExternalID, workURL string) *string {
	for _, id := range ids {
		if !strings.EqualFold(id.Type, "doi") {
			continue
		}
		if u := id.URL.get(); u != "" {
			return &u
		}
		if id.Value != "" {
			u := "https://doi.org/" + id.Value
			return &u
		}
		break
	}
	for _, id := range ids {
		if u := id.URL.get(); u != "" {
			return &u
		}
	}
	if workURL != "" {
		return &workURL
	}
	return nil
}

// FormatType turns "journal_article" into "journal article".
func FormatType(t string) *string {
	if t == "" {
		return nil
	}
	s := strings.ToLower(strings.ReplaceAll(t, "_", " "))
	return &s
}

func (v *Value) get() string {
	if v == nil {
		return ""
	}
	return v.Value
}

func (s WorkSummary) title() string {
	if s.Title == nil {
		return ""
	}
	return s.Title.Title.get()
}

func (s WorkSummary) year() string {
	if s.PublicationDate == nil {
		return ""
	}
	return s.PublicationDate.Year.get()
}

func (e *ExternalIDs) list() []ExternalID {
	if e == nil {
		return nil
	}
	return e.ExternalID
}
