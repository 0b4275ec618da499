package driving

import "context"

// SyncEngine runs one inventory reconciliation cycle on demand.
type SyncEngine interface {
	// RunSync fetches the full snapshot from the active connector and
	// uploads it to the server. A second call while one is in flight
	// returns domain.ErrSyncInProgress. Returns the number of products
	// uploaded (0 when the upload was skipped as unchanged).
	RunSync(ctx context.Context) (int, error)

	// Status reports the engine's current state.
	Status() SyncStatus
}

// SyncStatus describes the engine's last observed state.
type SyncStatus struct {
	// Running is true while a cycle is in flight.
	Running bool

	// LastProductCount is the snapshot size of the last successful cycle.
	LastProductCount int

	// LastUploadSkipped is true when the last cycle detected no change
	// and did not call the server.
	LastUploadSkipped bool
}
