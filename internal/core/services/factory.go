package services

import (
	"fmt"

	"github.com/quickbasket/smartsync-agent/internal/connectors/flatfile"
	"github.com/quickbasket/smartsync-agent/internal/connectors/reldb"
	"github.com/quickbasket/smartsync-agent/internal/connectors/zohobooks"
	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
)

// Ensure ConnectorFactory implements the interface.
var _ driven.ConnectorFactory = (*ConnectorFactory)(nil)

// ConnectorFactory builds the connector for a configuration's active
// variant. The switch over kinds is closed: adding a connector kind is a
// compile-time-checked extension here, and an unknown tag fails at
// startup rather than at first use.
type ConnectorFactory struct{}

// NewConnectorFactory creates the factory for the built-in connectors.
func NewConnectorFactory() *ConnectorFactory {
	return &ConnectorFactory{}
}

// Create returns the connector for the config's active variant.
func (f *ConnectorFactory) Create(cfg *domain.AgentConfig) (driven.Connector, error) {
	switch cfg.ConnectorType {
	case domain.KindLocalDB:
		if cfg.DB == nil {
			return nil, fmt.Errorf("%w: missing db connector config", domain.ErrInvalidConfig)
		}
		return reldb.New(cfg.DB), nil
	case domain.KindCSV:
		if cfg.File == nil {
			return nil, fmt.Errorf("%w: missing file connector config", domain.ErrInvalidConfig)
		}
		return flatfile.New(cfg.File), nil
	case domain.KindZohoBooks:
		if cfg.Zoho == nil {
			return nil, fmt.Errorf("%w: missing zoho connector config", domain.ErrInvalidConfig)
		}
		return zohobooks.New(cfg.Zoho), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, cfg.ConnectorType)
	}
}

// SupportedKinds returns all kinds this factory can build.
func (f *ConnectorFactory) SupportedKinds() []domain.ConnectorKind {
	return domain.Kinds()
}
