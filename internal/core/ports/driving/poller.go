package driving

import "context"

// CommandPoller retrieves pending remote commands and executes them
// against the active connector.
type CommandPoller interface {
	// Poll pulls pending commands, executes each and acknowledges each
	// exactly once, with a FAILED status when execution fails. Returns
	// the number of commands handled.
	Poll(ctx context.Context) (int, error)
}
