package driven

import "github.com/quickbasket/smartsync-agent/internal/core/domain"

// ConnectorFactory creates a connector from the persisted configuration's
// tagged union. Unknown tags fail fast at startup with
// domain.ErrUnsupportedType, not at first use.
type ConnectorFactory interface {
	// Create returns the connector for the config's active variant.
	Create(cfg *domain.AgentConfig) (Connector, error)

	// SupportedKinds returns all kinds this factory can build.
	SupportedKinds() []domain.ConnectorKind
}
