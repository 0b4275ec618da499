package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driving"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// Ensure SyncEngine implements the interface.
var _ driving.SyncEngine = (*SyncEngine)(nil)

// SyncEngine runs one reconciliation cycle: fetch the full snapshot from
// the active connector, then upload it. The engine owns the only piece of
// cross-cycle state in the agent, the digest of the last snapshot the
// server confirmed, so unchanged inventories cost one fetch and no
// upload. The digest moves only after a confirmed upload; a failed upload
// leaves it untouched so the next cycle uploads again.
type SyncEngine struct {
	connector driven.Connector
	transport driven.ServerTransport
	retry     RetryPolicy

	mu          sync.Mutex
	running     bool
	lastDigest  string
	lastCount   int
	lastSkipped bool
}

// NewSyncEngine creates a sync engine for one connector and transport.
func NewSyncEngine(connector driven.Connector, transport driven.ServerTransport) *SyncEngine {
	return &SyncEngine{
		connector: connector,
		transport: transport,
		retry:     DefaultRetryPolicy(),
	}
}

// RunSync performs one cycle. A call while another cycle is in flight
// returns domain.ErrSyncInProgress instead of overlapping connector I/O.
// On any failure the cycle logs and returns; nothing blocks the next
// scheduled cycle.
func (e *SyncEngine) RunSync(ctx context.Context) (int, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return 0, domain.ErrSyncInProgress
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	products, err := e.connector.FetchProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch products: %w", err)
	}

	digest, err := snapshotDigest(products)
	if err != nil {
		return 0, fmt.Errorf("digest snapshot: %w", err)
	}

	e.mu.Lock()
	unchanged := e.lastDigest != "" && digest == e.lastDigest
	e.mu.Unlock()

	if unchanged {
		logger.Debug("inventory unchanged, skipping upload", "products", len(products))
		e.setResult(len(products), true)
		return 0, nil
	}

	upload := func(ctx context.Context) error {
		return e.transport.UploadInventory(ctx, products)
	}
	if err := e.retry.Do(ctx, upload); err != nil {
		return 0, err
	}

	e.mu.Lock()
	e.lastDigest = digest
	e.mu.Unlock()
	e.setResult(len(products), false)

	logger.Info("inventory uploaded", "products", len(products))
	return len(products), nil
}

// Status reports the engine's current state.
func (e *SyncEngine) Status() driving.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return driving.SyncStatus{
		Running:           e.running,
		LastProductCount:  e.lastCount,
		LastUploadSkipped: e.lastSkipped,
	}
}

func (e *SyncEngine) setResult(count int, skipped bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastCount = count
	e.lastSkipped = skipped
}

// snapshotDigest hashes the canonical JSON form of the snapshot. Struct
// field order makes the encoding deterministic for identical snapshots.
func snapshotDigest(products []domain.ProductRecord) (string, error) {
	data, err := json.Marshal(products)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
