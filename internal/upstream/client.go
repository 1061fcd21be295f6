// Package upstream is the outbound HTTP client shared by the preprint and
// publication sources. Requests are traced through otelhttp and counted in
// Prometheus per upstream name.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes int64 = 10 << 20

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Config configures a Client.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	// Transport overrides the base round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Client performs GET requests against third-party APIs.
type Client struct {
	http     *http.Client
	ua       string
	maxBytes int64
	metrics  *Metrics
}

// New builds a Client. metrics may be nil.
func New(cfg Config, metrics *Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		ua:       cfg.UserAgent,
		maxBytes: cfg.MaxBytes,
		metrics:  metrics,
	}
}

// Get fetches url on behalf of the named upstream. A non-2xx status is not an
// error; callers inspect Response.StatusCode.
func (c *Client) Get(ctx context.Context, name, url string, header http.Header) (*Response, error) {
	start := time.Now()
	resp, err := c.get(ctx, url, header)
	c.metrics.observe(name, outcome(resp, err), time.Since(start))
	return resp, err
}

func (c *Client) get(ctx context.Context, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.ua != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.ua)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
}

func outcome(resp *Response, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case err != nil:
		return "error"
	case resp.OK():
		return "ok"
	default:
		return "bad_status"
	}
}

// Metrics holds the upstream collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the upstream collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total number of outbound requests by upstream and outcome.",
			},
			[]string{"upstream", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Outbound request latency by upstream.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(name, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(name, outcome).Inc()
	m.duration.WithLabelValues(name).Observe(d.Seconds())
}
