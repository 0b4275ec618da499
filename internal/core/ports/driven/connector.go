package driven

import (
	"context"
	"time"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// Connector abstracts one inventory data source. Each source family
// (relational database, flat file, accounting API) implements this
// interface and maps source-native records into canonical ProductRecords.
//
// Contract:
//   - TestConnection never returns an error; any failure becomes false.
//   - Disconnect is an idempotent no-op on an unconnected instance.
//   - FetchProducts returns a complete current snapshot or an error;
//     partial lists on error are forbidden. Callers rely on completeness
//     to decide whether to upload.
type Connector interface {
	// Type returns the connector kind tag.
	Type() domain.ConnectorKind

	// Capabilities returns what this connector supports.
	Capabilities() ConnectorCapabilities

	// Connect validates the configuration and prepares the connector.
	Connect(ctx context.Context) error

	// TestConnection performs a connectivity round-trip and reports the
	// outcome as a boolean. It must not fail.
	TestConnection(ctx context.Context) bool

	// FetchProducts returns the full current product snapshot.
	FetchProducts(ctx context.Context) ([]domain.ProductRecord, error)

	// FetchStockChanges returns quantity deltas since the given time.
	// Connectors without incremental support return an empty slice.
	FetchStockChanges(ctx context.Context, since time.Time) ([]domain.StockChange, error)

	// ApplyStockUpdate writes a new absolute quantity for a SKU back to
	// the source. It reports success as a boolean so callers can branch
	// without error handling; the cause is logged by the connector.
	ApplyStockUpdate(ctx context.Context, sku string, quantity int) bool

	// Disconnect releases resources.
	Disconnect() error
}

// ConnectorCapabilities describes what a connector supports.
type ConnectorCapabilities struct {
	// SupportsIncremental indicates FetchStockChanges returns real deltas.
	SupportsIncremental bool

	// SupportsWriteBack indicates ApplyStockUpdate can succeed.
	SupportsWriteBack bool

	// SupportsWatch indicates the connector can signal source changes.
	SupportsWatch bool

	// RequiresAuth indicates the source itself needs credentials.
	RequiresAuth bool
}

// Watcher is implemented by connectors that can signal source changes in
// real time. The scheduler uses the signal to run an immediate sync cycle
// instead of waiting for the next timer tick.
type Watcher interface {
	// Watch emits one value per detected source change until ctx ends.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
