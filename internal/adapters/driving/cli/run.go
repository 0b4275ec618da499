package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quickbasket/smartsync-agent/internal/adapters/driven/storage/sqlite"
	"github.com/quickbasket/smartsync-agent/internal/adapters/driven/transport/rest"
	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/core/services"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the agent",
	Long: `Starts the agent loop: periodic inventory sync, heartbeats, and
command polling. Runs until interrupted (Ctrl+C) or terminated.

Requires a completed setup ('smartsync-agent setup').`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAgent(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	connector, err := factory.Create(cfg)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := connector.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.ConnectorType, err)
	}
	defer func() {
		if err := connector.Disconnect(); err != nil {
			logger.Warn("disconnect failed", "error", err)
		}
	}()

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open agent store: %w", err)
	}
	defer store.Close()

	transport := rest.NewClient(cfg.ServerURL, cfg.AgentKey)
	engine := services.NewSyncEngine(connector, transport)
	poller := services.NewCommandPoller(connector, transport)
	scheduler := services.NewScheduler(domain.DefaultSchedulerConfig(), store, engine, poller, transport)

	// Folder-based connectors can push sync triggers on file changes
	// instead of waiting for the next interval.
	if watcher, ok := connector.(driven.Watcher); ok {
		events, err := watcher.Watch(ctx)
		if err != nil && !errors.Is(err, domain.ErrUnsupportedOperation) {
			logger.Warn("file watch unavailable, falling back to interval sync", "error", err)
		}
		if events != nil {
			go func() {
				for range events {
					logger.Info("file change detected, triggering sync")
					scheduler.TriggerSync()
				}
			}()
		}
	}

	cmd.Printf("SmartSync Agent %s started (connector: %s)\n", version, cfg.ConnectorType)
	cmd.Println("Press Ctrl+C to stop.")

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	cmd.Println("Agent stopped.")
	return nil
}

// loadConfig loads the saved configuration and validates it, translating
// a missing config into an actionable message.
func loadConfig() (*domain.AgentConfig, error) {
	cfg, err := configStore.Load()
	if errors.Is(err, domain.ErrSetupRequired) {
		return nil, fmt.Errorf("no configuration found at %s, run 'smartsync-agent setup' first", configStore.Path())
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration at %s: %w", configStore.Path(), err)
	}
	return cfg, nil
}
