package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/config"
	"portfolio/internal/logger"
)

// env is populated before any subcommand runs.
type env struct {
	cfg *config.AppConfig
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Academic portfolio site and JSON API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.cfg = config.Load()
			e.log = logger.New(e.cfg.LogLevel, e.cfg.Location())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
		// Serving is the default so the container entrypoint needs no arguments.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), e)
		},
	}

	root.AddCommand(
		newServeCmd(e),
		newMigrateCmd(e),
		newPublishCmd(e),
	)
	return root
}

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), e)
		},
	}
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the counter tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), e)
		},
	}
}

func newPublishCmd(e *env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "publish-blogs",
		Short: "Upload blog PDFs from the static directory to object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), e, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "re-upload objects that already exist with the same size")
	return cmd
}
