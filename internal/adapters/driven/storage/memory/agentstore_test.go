package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

// TestAgentStore_GetTask_Missing tests the nil-without-error contract
func TestAgentStore_GetTask_Missing(t *testing.T) {
	store := NewAgentStore()
	task, err := store.GetTask(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, task)
}

// TestAgentStore_SaveAndGetTask tests a save/load round trip
func TestAgentStore_SaveAndGetTask(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	task := &domain.ScheduledTask{ID: "heartbeat", Name: "Heartbeat", Interval: time.Minute, Enabled: true}
	require.NoError(t, store.SaveTask(ctx, task))

	got, err := store.GetTask(ctx, "heartbeat")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Heartbeat", got.Name)

	// The stored copy does not alias the caller's struct.
	got.Name = "mutated"
	again, err := store.GetTask(ctx, "heartbeat")
	require.NoError(t, err)
	assert.Equal(t, "Heartbeat", again.Name)
}

// TestAgentStore_SaveTask_Nil tests input validation
func TestAgentStore_SaveTask_Nil(t *testing.T) {
	store := NewAgentStore()
	assert.ErrorIs(t, store.SaveTask(context.Background(), nil), domain.ErrInvalidInput)
}

// TestAgentStore_ListTasks_Sorted tests ordering by ID
func TestAgentStore_ListTasks_Sorted(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	for _, id := range []string{"inventory-sync", "command-poll", "heartbeat"} {
		require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: id}))
	}

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "command-poll", tasks[0].ID)
	assert.Equal(t, "heartbeat", tasks[1].ID)
	assert.Equal(t, "inventory-sync", tasks[2].ID)
}

// TestAgentStore_HistoryAndPrune tests recording, ordering and retention
func TestAgentStore_HistoryAndPrune(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			RunID:     fmt.Sprintf("run-%d", i),
			TaskID:    "inventory-sync",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Success:   true,
		}))
	}

	history, err := store.GetTaskHistory(ctx, "inventory-sync", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "run-4", history[0].RunID)
	assert.Equal(t, "run-3", history[1].RunID)

	require.NoError(t, store.PruneHistory(ctx, 2))
	history, err = store.GetTaskHistory(ctx, "inventory-sync", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "run-4", history[0].RunID)
}
