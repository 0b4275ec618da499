package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driving"
	"github.com/quickbasket/smartsync-agent/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyKeep is how many results are retained per task.
const historyKeep = 100

// Scheduler runs the agent's three background timers (inventory sync,
// heartbeat and command poll), each on its own interval. A failure in one
// task's handler never affects the others: every run owns its own error
// boundary and logs-and-continues.
//
// Each task carries a single-flight guard: when a run outlives its
// interval, the next tick is skipped rather than overlapped, so slow
// sources cannot stack database connections or duplicate uploads.
type Scheduler struct {
	config    domain.SchedulerConfig
	store     driven.AgentStore // may be nil; timing then lives in memory only
	engine    driving.SyncEngine
	poller    driving.CommandPoller
	transport driven.ServerTransport

	mu      sync.Mutex
	running bool
	busy    map[string]bool
	stopCh  chan struct{}
	syncCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler wiring the three task handlers.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.AgentStore,
	engine driving.SyncEngine,
	poller driving.CommandPoller,
	transport driven.ServerTransport,
) *Scheduler {
	return &Scheduler{
		config:    config,
		store:     store,
		engine:    engine,
		poller:    poller,
		transport: transport,
		busy:      make(map[string]bool),
		syncCh:    make(chan struct{}, 1),
	}
}

// Start launches the task loops and blocks until ctx is cancelled or Stop
// is called. A heartbeat runs immediately so the server sees the agent as
// alive before the first interval elapses.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler task state init failed", "err", err)
	}

	s.runTask(ctx, domain.TaskIDHeartbeat)

	for _, taskID := range []string{
		domain.TaskIDInventorySync,
		domain.TaskIDHeartbeat,
		domain.TaskIDCommandPoll,
	} {
		cfg := s.config.GetTaskConfig(taskID)
		if !cfg.Enabled || cfg.Interval <= 0 {
			logger.Debug("task disabled", "task", taskID)
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, stopCh, taskID, cfg.Interval)
	}

	s.wg.Add(1)
	go s.triggerLoop(ctx, stopCh)

	select {
	case <-ctx.Done():
		s.shutdown()
		return ctx.Err()
	case <-stopCh:
		return nil
	}
}

// Stop gracefully shuts down and waits for in-flight runs to finish.
func (s *Scheduler) Stop() error {
	s.shutdown()
	return nil
}

// TriggerSync requests an immediate sync cycle. Non-blocking; a pending
// trigger absorbs further requests.
func (s *Scheduler) TriggerSync() {
	select {
	case s.syncCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) shutdown() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// loop drives one task on its interval until shutdown.
func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}, taskID string, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.runTask(ctx, taskID)
		}
	}
}

// triggerLoop serves out-of-band sync requests (file watch events, CLI).
func (s *Scheduler) triggerLoop(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-s.syncCh:
			s.runTask(ctx, domain.TaskIDInventorySync)
		}
	}
}

// runTask executes one task run inside its own error boundary.
func (s *Scheduler) runTask(ctx context.Context, taskID string) {
	s.mu.Lock()
	if s.busy[taskID] {
		s.mu.Unlock()
		logger.Debug("previous run still in flight, skipping", "task", taskID)
		return
	}
	s.busy[taskID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy[taskID] = false
		s.mu.Unlock()
	}()

	result := domain.TaskResult{
		RunID:     uuid.NewString(),
		TaskID:    taskID,
		StartedAt: time.Now(),
	}

	items, err := s.execute(ctx, taskID)
	result.EndedAt = time.Now()
	result.ItemsProcessed = items
	if err != nil {
		result.Error = err.Error()
		logger.Error("task failed", "task", taskID, "err", err)
	} else {
		result.Success = true
		logger.Debug("task complete", "task", taskID, "items", items,
			"took", result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond))
	}

	s.record(ctx, &result)
}

// execute dispatches a task ID to its handler.
func (s *Scheduler) execute(ctx context.Context, taskID string) (int, error) {
	switch taskID {
	case domain.TaskIDInventorySync:
		return s.engine.RunSync(ctx)
	case domain.TaskIDHeartbeat:
		return 0, s.transport.Heartbeat(ctx)
	case domain.TaskIDCommandPoll:
		return s.poller.Poll(ctx)
	default:
		logger.Warn("unknown task id", "task", taskID)
		return 0, nil
	}
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	names := map[string]string{
		domain.TaskIDInventorySync: "Inventory Sync",
		domain.TaskIDHeartbeat:     "Heartbeat",
		domain.TaskIDCommandPoll:   "Command Poll",
	}

	for taskID, name := range names {
		cfg := s.config.GetTaskConfig(taskID)
		if err := s.ensureTask(ctx, taskID, name, cfg); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	} else if task.Interval != cfg.Interval {
		task.Interval = cfg.Interval
		task.NextRun = time.Now().Add(cfg.Interval)
	}
	task.Enabled = cfg.Enabled

	return s.store.SaveTask(ctx, task)
}

// record updates the task's stored state and appends to its history.
func (s *Scheduler) record(ctx context.Context, result *domain.TaskResult) {
	if s.store == nil {
		return
	}

	task, err := s.store.GetTask(ctx, result.TaskID)
	if err != nil || task == nil {
		logger.Warn("task state unavailable", "task", result.TaskID, "err", err)
	} else {
		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)
		if result.Success {
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		} else {
			task.LastError = result.Error
		}
		if err := s.store.SaveTask(ctx, task); err != nil {
			logger.Warn("saving task state failed", "task", result.TaskID, "err", err)
		}
	}

	if err := s.store.RecordResult(ctx, result); err != nil {
		logger.Warn("recording task result failed", "task", result.TaskID, "err", err)
	}
	if err := s.store.PruneHistory(ctx, historyKeep); err != nil {
		logger.Warn("pruning task history failed", "err", err)
	}
}
