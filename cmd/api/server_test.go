package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"portfolio/internal/config"
	"portfolio/internal/http/middleware"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	static := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(static, "blogs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "robots.txt"), []byte("User-agent: *\n"), 0o644))

	return &config.AppConfig{
		Port:      "0",
		Timezone:  "UTC",
		VisitsKey: "site:visits",
		Site: config.SiteConfig{
			BaseURL:    "https://example.org",
			Owner:      "Test Owner",
			StaticDir:  static,
			ScholarURL: "https://scholar.example/me",
		},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			SQLitePath:   filepath.Join(dir, "visits.db"),
			MaxOpenConns: 1,
		},
		Arxiv:    config.ArxivConfig{FeedURL: "http://127.0.0.1:1/rss", Source: "arXiv", Revalidate: time.Hour},
		Orcid:    config.OrcidConfig{ID: "0000", APIBase: "http://127.0.0.1:1", Revalidate: time.Hour},
		Upstream: config.UpstreamConfig{Timeout: time.Second, UserAgent: "test"},
	}
}

func TestNewServer_Wiring(t *testing.T) {
	srv, err := newServer(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	get := func(target string) (*http.Response, []byte) {
		resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp, body
	}

	resp, _ := get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for want := int64(1); want <= 3; want++ {
		resp, body := get("/api/visits")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		var got struct {
			Count int64 `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, want, got.Count)
	}

	resp, body := get("/robots.txt")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User-agent: *\n", string(body))

	resp, body = get(middleware.MetricsPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/visits",status="200"} 3`)
}

func TestNewServer_UpstreamDownStillServes(t *testing.T) {
	srv, err := newServer(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/arxiv", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/publications", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Available   bool   `json:"available"`
		FallbackURL string `json:"fallbackUrl"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.False(t, list.Available)
	assert.Equal(t, "https://scholar.example/me", list.FallbackURL)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["publish-blogs"])

	pub, _, err := root.Find([]string{"publish-blogs"})
	require.NoError(t, err)
	assert.NotNil(t, pub.Flags().Lookup("force"))
}

func TestRootCmd_ReportsErrors(t *testing.T) {
	t.Run("startup failure is printed", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("LOG_LEVEL", "fatal")
		root := newRootCmd()
		root.SetArgs([]string{"migrate"})

		var stderr bytes.Buffer
		code := execute(root, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), `failed to connect to database: unsupported database driver "mysql"`)
	})

	t.Run("success prints nothing", func(t *testing.T) {
		root := newRootCmd()
		root.SetArgs([]string{"--help"})
		root.SetOut(io.Discard)

		var stderr bytes.Buffer
		assert.Equal(t, 0, execute(root, &stderr))
		assert.Empty(t, stderr.String())
	})
}

func TestNewServer_AccessLogCarriesTraceID(t *testing.T) {
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	core, logs := observer.New(zapcore.InfoLevel)
	srv, err := newServer(context.Background(), testConfig(t), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	traceID, ok := entries[0].ContextMap()["trace_id"].(string)
	require.True(t, ok, "trace_id missing from access log")
	assert.Len(t, traceID, 32)
}
