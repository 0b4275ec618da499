package driven

import "github.com/quickbasket/smartsync-agent/internal/core/domain"

// ConfigStore persists the agent configuration. The on-disk format is the
// JSON object described by the server contract, so the store is typed
// rather than key-value.
type ConfigStore interface {
	// Load reads the persisted configuration.
	// Returns domain.ErrSetupRequired if no configuration exists yet.
	Load() (*domain.AgentConfig, error)

	// Save writes the configuration atomically.
	Save(cfg *domain.AgentConfig) error

	// Path returns the configuration file location for display.
	Path() string
}
