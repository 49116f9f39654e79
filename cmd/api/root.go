package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kb_backend/internal/app"
	v1 "kb_backend/internal/v1"
	"kb_backend/platform/config"
	"kb_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "kb-api",
	Short: "Knowledge base API server",
	Long: `Serves the versioned knowledge base API (/api/v1) with greeting and
health endpoints. Configuration comes from environment variables and an
optional dotenv file. The server shuts down cleanly on SIGTERM or SIGINT.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the configured application name and version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.AppName, cfg.AppVersion)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "path to an optional dotenv file")
	rootCmd.AddCommand(versionCmd)
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	log.Info("configuration loaded",
		"env", cfg.Env,
		"log_level", logger.Level().String(),
		"addr", cfg.GetHTTPAddr(),
		"cors_origins", cfg.CORSOrigins,
		"cors_allow_credentials", cfg.CORSAllowCredentials,
	)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Reload {
		log.Debug("RELOAD has no effect on a compiled binary; rebuild and restart to pick up changes")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.New(cfg, log, v1.Modules()).Run(ctx)
}
