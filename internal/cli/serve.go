package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ai-forum-web/internal/app"
	"ai-forum-web/internal/config"
	"ai-forum-web/pkg/logger"
	"ai-forum-web/pkg/validator"
)

const shutdownTimeout = 30 * time.Second

var serveFlags struct {
	SkipNavigationCheck bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.SkipNavigationCheck, "skip-navigation-check", false, "do not verify navigation destinations at startup")
}

func loadConfig() *config.Config {
	if err := godotenv.Load(globalFlags.EnvFile); err != nil {
		logger.Info("No .env file found, using environment variables", map[string]interface{}{
			"file": globalFlags.EnvFile,
		})
	}

	cfg := config.New()
	if globalFlags.LogLevel != "" {
		cfg.LogLevel = globalFlags.LogLevel
	}
	logger.SetLevel(cfg.LogLevel)
	return cfg
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.Init()
	logger.Info("Starting AI Forum web", nil)

	cfg := loadConfig()
	validator.Init()

	application, err := app.New(cfg, app.Options{SkipNavigationCheck: serveFlags.SkipNavigationCheck})
	if err != nil {
		logger.Error(err, "Failed to initialize application", nil)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Failed to start server", nil)
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...", nil)
	case runErr = <-serverErr:
		logger.Error(runErr, "Server error occurred, initiating shutdown", nil)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Server forced to shutdown", nil)
		return err
	}

	logger.Info("Server exited gracefully", nil)
	return runErr
}
