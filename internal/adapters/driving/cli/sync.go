package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quickbasket/smartsync-agent/internal/adapters/driven/transport/rest"
	"github.com/quickbasket/smartsync-agent/internal/core/services"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single inventory sync",
	Long: `Fetches the product catalogue from the configured source and uploads
it to the server once, then exits. Useful for testing a new configuration
without starting the full agent.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	connector, err := factory.Create(cfg)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}

	ctx := cmd.Context()
	if err := connector.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.ConnectorType, err)
	}
	defer func() {
		if err := connector.Disconnect(); err != nil {
			logger.Warn("disconnect failed", "error", err)
		}
	}()

	engine := services.NewSyncEngine(connector, rest.NewClient(cfg.ServerURL, cfg.AgentKey))

	cmd.Println("Syncing inventory...")
	start := time.Now()
	count, err := engine.RunSync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	cmd.Printf("Synced %d products in %s.\n", count, time.Since(start).Round(time.Millisecond))
	return nil
}
