package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolio/docs"
	"portfolio/internal/arxiv"
	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/database"
	"portfolio/internal/database/migration"
	handlers "portfolio/internal/http/handler"
	"portfolio/internal/http/middleware"
	"portfolio/internal/orcid"
	"portfolio/internal/repository/sqlstore"
	"portfolio/internal/service"
	"portfolio/internal/storage"
	"portfolio/internal/upstream"
	"portfolio/internal/view"
)

// server owns the fiber app and the resources it must release.
type server struct {
	app *fiber.App
	db  *sql.DB
}

func (s *server) Close() error {
	return s.db.Close()
}

func newServer(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*server, error) {
	// Visit counter store (PostgreSQL or SQLite via database/sql)
	db, dialect, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, dialect, log); err != nil {
		db.Close()
		return nil, err
	}

	store, presignTTL, err := openStorage(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	catalog, err := content.Load()
	if err != nil {
		db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		db.Close()
		return nil, err
	}
	upMetrics, err := upstream.NewMetrics(reg)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Outbound feeds share one instrumented client
	up := upstream.New(upstream.Config{
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: cfg.Upstream.UserAgent,
	}, upMetrics)
	feed := arxiv.New(arxiv.Config{
		FeedURL:    cfg.Arxiv.FeedURL,
		Source:     cfg.Arxiv.Source,
		Revalidate: cfg.Arxiv.Revalidate,
	}, up)
	works := orcid.New(orcid.Config{
		ID:         cfg.Orcid.ID,
		APIBase:    cfg.Orcid.APIBase,
		Revalidate: cfg.Orcid.Revalidate,
	}, up)

	counters := sqlstore.NewCounterSQL(db, dialect)
	visitSvc := service.NewVisitService(counters, cfg.VisitsKey)
	preprintSvc := service.NewPreprintService(feed, log)
	pubSvc := service.NewPublicationService(works, cfg.Site.ScholarURL, log)
	contentSvc := service.NewContentService(catalog)
	blogSvc := service.NewBlogService(catalog, store, presignTTL, log)
	homeSvc := service.NewHomeService(preprintSvc, pubSvc, blogSvc, contentSvc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.Site.Owner,
		ErrorHandler: handlers.ErrorHandler(cfg.Site.Owner),
		Views:        view.New(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// RequestID first so every later middleware can log it. The span must
	// wrap Logger so the access log sees it in the user context.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Services{
		Health:       counters,
		Visits:       visitSvc,
		Preprints:    preprintSvc,
		Publications: pubSvc,
		Content:      contentSvc,
		Blog:         blogSvc,
	}, &handlers.Pages{
		SiteTitle:    cfg.Site.Owner,
		BaseURL:      cfg.Site.BaseURL,
		Location:     cfg.Location(),
		Home:         homeSvc,
		Content:      contentSvc,
		Publications: pubSvc,
		Blog:         blogSvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Images, CV and any PDFs not moved to object storage
	app.Static("/", cfg.Site.StaticDir)

	return &server{app: app, db: db}, nil
}

// openStorage returns MinIO when configured, otherwise the static directory.
// The presign TTL is zero for the local store so PDFs are streamed.
func openStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, time.Duration, error) {
	if cfg.MinIO.Enabled() {
		s, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return s, cfg.MinIO.PresignTTL, nil
	}
	s, err := storage.NewLocal(cfg.Site.StaticDir)
	if err != nil {
		return nil, 0, err
	}
	return s, 0, nil
}
