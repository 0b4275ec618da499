// Package cli implements the command-line interface for the SmartSync
// agent using cobra commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quickbasket/smartsync-agent/internal/adapters/driven/config/file"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/core/services"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Package-level services, wired in Execute and replaceable in tests.
var (
	configStore driven.ConfigStore
	factory     driven.ConnectorFactory
	registry    *services.ConnectorRegistry
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "smartsync-agent",
	Short: "On-premise inventory sync agent for QuickBasket",
	Long: `SmartSync Agent connects a retailer's local inventory system (a
database, a CSV/Excel export folder, or Zoho Books) to the QuickBasket
platform. It periodically uploads the product catalogue, sends heartbeats,
and executes commands pushed from the server.

Run 'smartsync-agent setup' once to register with the server, then
'smartsync-agent run' to start the agent.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Init(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute wires the default dependencies and runs the root command.
func Execute() error {
	if configStore == nil {
		store, err := file.NewConfigStore("")
		if err != nil {
			return err
		}
		configStore = store
	}
	if factory == nil {
		factory = services.NewConnectorFactory()
	}
	if registry == nil {
		registry = services.NewConnectorRegistry()
	}
	return rootCmd.Execute()
}
