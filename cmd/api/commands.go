package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/content"
	"portfolio/internal/database"
	"portfolio/internal/database/migration"
	"portfolio/internal/otel"
	"portfolio/internal/service"
	"portfolio/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, e *env) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, e.log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			e.log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	srv, err := newServer(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	defer srv.Close()

	addr := ":" + e.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server_listening", zap.String("addr", addr))
		errCh <- srv.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	e.log.Info("server_shutting_down")
	if err := srv.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runMigrate(ctx context.Context, e *env) error {
	db, dialect, err := database.Open(e.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migration.EnsureMigrated(ctx, db, dialect, e.log)
}

func runPublish(ctx context.Context, e *env, force bool) error {
	if !e.cfg.MinIO.Enabled() {
		return errors.New("publish-blogs requires MINIO_ENDPOINT")
	}
	dst, err := storage.NewMinIO(ctx, e.cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	src, err := storage.NewLocal(e.cfg.Site.StaticDir)
	if err != nil {
		return err
	}
	catalog, err := content.Load()
	if err != nil {
		return err
	}

	blog := service.NewBlogService(catalog, dst, 0, e.log)
	report, err := blog.Publish(ctx, src, force)
	if report != nil {
		e.log.Info("blog_publish_finished",
			zap.Int("uploaded", len(report.Uploaded)),
			zap.Int("skipped", len(report.Skipped)),
		)
	}
	return err
}
