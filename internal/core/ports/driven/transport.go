package driven

import (
	"context"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// ServerTransport wraps every outbound call to the central server. The
// transport performs no retries of its own; retry policy belongs to the
// caller. Any non-2xx response or network fault surfaces as an error.
type ServerTransport interface {
	// Register performs the one-time bootstrap call. It authenticates
	// with a retailer-issued bearer token, not the agent key, and
	// returns the issued identity. A 401/403 wraps domain.ErrAuthInvalid.
	Register(ctx context.Context, retailerToken, agentName string) (*domain.AgentIdentity, error)

	// Heartbeat signals liveness using the agent key.
	Heartbeat(ctx context.Context) error

	// UploadInventory posts the full canonical product snapshot. Whether
	// the server treats it as full-replace or diff-merge is opaque to
	// the agent.
	UploadInventory(ctx context.Context, products []domain.ProductRecord) error

	// PullCommands returns the pending commands for this agent.
	// An empty list is the normal no-op case.
	PullCommands(ctx context.Context) ([]domain.RemoteCommand, error)

	// AckCommand reports the terminal outcome of one pulled command.
	AckCommand(ctx context.Context, commandID string, status domain.CommandStatus, message string) error
}
