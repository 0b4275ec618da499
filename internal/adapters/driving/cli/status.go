package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quickbasket/smartsync-agent/internal/adapters/driven/storage/sqlite"
	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
)

var statusHistoryLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled task state and recent runs",
	Long: `Shows the recorded state of the agent's background tasks (inventory
sync, heartbeat, command polling) and the most recent runs of each.

Reads the local task store; the agent itself does not need to be running.`,
	RunE: runStatus,
}

// openAgentStore opens the task store for read-only commands.
// Replaceable in tests.
var openAgentStore = func() (driven.AgentStore, error) {
	return sqlite.NewStore("")
}

func init() {
	statusCmd.Flags().IntVar(&statusHistoryLimit, "history", 5, "number of recent runs to show per task")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := configStore.Load()
	if errors.Is(err, domain.ErrSetupRequired) {
		cmd.Println("Agent is not configured. Run 'smartsync-agent setup' first.")
		return nil
	}
	if err != nil {
		return err
	}

	store, err := openAgentStore()
	if err != nil {
		return fmt.Errorf("open agent store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	tasks, err := store.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	connectorName := string(cfg.ConnectorType)
	if t, err := registry.Get(cfg.ConnectorType); err == nil {
		connectorName = t.Name
	}
	cmd.Printf("Connector: %s\n", connectorName)
	cmd.Printf("Server:    %s\n", cfg.ServerURL)
	cmd.Println()

	if len(tasks) == 0 {
		cmd.Println("No task state recorded yet. Start the agent with 'smartsync-agent run'.")
		return nil
	}

	for _, task := range tasks {
		cmd.Printf("[%s]\n", task.Name)
		cmd.Printf("  Interval: %s\n", task.Interval)
		if task.LastRun.IsZero() {
			cmd.Println("  Last run: never")
		} else {
			cmd.Printf("  Last run: %s\n", task.LastRun.Format("2006-01-02 15:04:05"))
		}
		if !task.LastSuccess.IsZero() {
			cmd.Printf("  Last success: %s\n", task.LastSuccess.Format("2006-01-02 15:04:05"))
		}
		if task.LastError != "" {
			cmd.Printf("  Last error: %s\n", task.LastError)
		}

		history, err := store.GetTaskHistory(ctx, task.ID, statusHistoryLimit)
		if err != nil {
			return fmt.Errorf("task history for %s: %w", task.ID, err)
		}
		for _, result := range history {
			outcome := "ok"
			if !result.Success {
				outcome = "failed: " + result.Error
			}
			cmd.Printf("    %s  %-6s items=%d  %s\n",
				result.StartedAt.Format("2006-01-02 15:04:05"),
				result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond),
				result.ItemsProcessed,
				outcome)
		}
		cmd.Println()
	}
	return nil
}
