package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ai-forum-web/pkg/cache"
	"ai-forum-web/pkg/logger"
)

var errCacheDisabled = errors.New("prediction cache is disabled, set ENABLE_REDIS=true")

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the prediction cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Remove every cached toxicity prediction",
	Args:  cobra.NoArgs,
	RunE:  runCacheFlush,
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheFlush(cmd *cobra.Command, _ []string) error {
	logger.Init()
	cfg := loadConfig()

	if !cfg.EnableRedis {
		return errCacheDisabled
	}

	c, err := cache.NewCache(cfg.RedisURL, true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	return flushPredictions(ctx, c, cmd)
}

func flushPredictions(ctx context.Context, c *cache.Cache, cmd *cobra.Command) error {
	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	if err := c.InvalidatePredictions(ctx); err != nil {
		return fmt.Errorf("flush predictions: %w", err)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), "prediction cache flushed")
	return err
}
