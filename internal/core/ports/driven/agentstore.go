package driven

import (
	"context"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// AgentStore persists scheduler task state and execution history locally.
// Product data is never stored here; the server is the system of record;
// this store only exists so task timing survives restarts and operators
// can inspect recent runs.
type AgentStore interface {
	// GetTask retrieves a scheduled task by ID.
	// Returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task's state.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordResult logs a task execution result.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns recent results for a task, most recent first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps only the most recent 'keep' results per task.
	PruneHistory(ctx context.Context, keep int) error

	// Close releases the underlying storage.
	Close() error
}
