package driving

import "context"

// Scheduler owns the agent's background timers: inventory sync, heartbeat
// and command poll, each on an independent interval.
type Scheduler interface {
	// Start runs the scheduler until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop shuts down and waits for in-flight task runs to finish.
	Stop() error

	// TriggerSync requests an immediate sync cycle outside the timer,
	// e.g. when a watched source file changes. Non-blocking; coalesces
	// with an already-pending trigger.
	TriggerSync()
}
