package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobharvest/internal/config"
	"jobharvest/internal/export"
	"jobharvest/internal/harvester"
	"jobharvest/internal/logging"
	"jobharvest/internal/naukri"
	"jobharvest/pkg/models"
)

// TaskManager defines the interface for managing background harvest tasks
type TaskManager interface {
	// Start starts the task manager
	Start(ctx context.Context) error

	// Stop stops the task manager gracefully
	Stop(ctx context.Context) error

	// SubmitHarvestTask submits a harvest for background processing
	SubmitHarvestTask(ctx context.Context, processID string, request models.HarvestRequest) error

	// GetTaskResult retrieves the result of a task by process ID
	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)

	// GetTaskStatus retrieves the status of a task by process ID
	GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error)

	// ListTasks lists all known tasks (for monitoring)
	ListTasks(ctx context.Context) ([]*TaskResult, error)

	// IsHealthy checks if the task manager is healthy
	IsHealthy() bool
}

// taskExecution pairs a queued task with its execution function.
type taskExecution struct {
	processID string
	execute   func(context.Context) (*HarvestTaskData, map[string]interface{}, error)
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	config   *config.Config
	store    TaskStore
	logger   logging.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	taskChan chan *taskExecution
}

// NewTaskManager creates a new task manager. When Redis is enabled and
// reachable, task results are stored there; otherwise in memory.
func NewTaskManager(cfg *config.Config) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	var store TaskStore
	if cfg.Redis.Enabled {
		redisStore, err := NewRedisTaskStore(cfg)
		if err != nil {
			logger.Warn("Redis task store unavailable, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("Using Redis task store", map[string]interface{}{
				"url": cfg.Redis.URL,
			})
			store = redisStore
		}
	}
	if store == nil {
		store = NewInMemoryTaskStore()
	}

	return &TaskManagerImpl{
		config:   cfg,
		store:    store,
		logger:   logger,
		taskChan: make(chan *taskExecution, cfg.BackgroundTasks.QueueSize),
	}
}

// Start starts the task manager
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.config.BackgroundTasks.MaxConcurrentTasks; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.logger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.config.BackgroundTasks.MaxConcurrentTasks,
	})
	return nil
}

// Stop stops the task manager gracefully
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.logger.Info("Stopping task manager...")

	tm.cancel()
	close(tm.taskChan)

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.logger.Info("Task manager stopped gracefully")
	case <-ctx.Done():
		tm.logger.Warn("Task manager shutdown timed out")
	}

	tm.running = false
	return nil
}

// SubmitHarvestTask submits a harvest for background processing
func (tm *TaskManagerImpl) SubmitHarvestTask(ctx context.Context, processID string, request models.HarvestRequest) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      TaskTypeHarvest,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata: map[string]interface{}{
			"keyword":     request.Keyword,
			"location":    request.Location,
			"max_results": request.MaxResults,
		},
	}

	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	execution := &taskExecution{
		processID: processID,
		execute: func(execCtx context.Context) (*HarvestTaskData, map[string]interface{}, error) {
			return tm.executeHarvest(execCtx, request)
		},
	}

	select {
	case tm.taskChan <- execution:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// GetTaskStatus retrieves the status of a task by process ID
func (tm *TaskManagerImpl) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks lists all known tasks (for monitoring)
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

// worker processes tasks from the task channel
func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case task, ok := <-tm.taskChan:
			if !ok {
				return
			}
			tm.processTask(workerID, task)
		}
	}
}

// processTask processes a single queued harvest
func (tm *TaskManagerImpl) processTask(workerID int, task *taskExecution) {
	startTime := time.Now()

	tm.logger.Info("Processing task", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.processID,
	})

	if err := tm.updateTaskStatus(task.processID, TaskStatusProcessing); err != nil {
		tm.logger.Error("Failed to update task status to processing", map[string]interface{}{
			"error": err.Error(),
		})
	}

	taskCtx, cancel := context.WithTimeout(tm.ctx, tm.config.BackgroundTasks.TaskTimeout)
	defer cancel()

	data, metadata, err := task.execute(taskCtx)
	processingTime := time.Since(startTime)

	result, getErr := tm.store.Get(context.Background(), task.processID)
	if getErr != nil {
		tm.logger.Error("Failed to retrieve task result for final update", map[string]interface{}{
			"process_id": task.processID,
			"error":      getErr.Error(),
		})
		result = &TaskResult{
			ProcessID: task.processID,
			Type:      TaskTypeHarvest,
			CreatedAt: startTime,
		}
	}

	result.ProcessingTime = processingTime
	completedAt := time.Now()
	result.CompletedAt = &completedAt

	if err != nil {
		tm.logger.Error("Task execution failed", map[string]interface{}{
			"worker_id":       workerID,
			"process_id":      task.processID,
			"processing_time": processingTime.String(),
			"error":           err.Error(),
		})
		result.Status = TaskStatusFailure
		result.Error = err.Error()
	} else {
		tm.logger.Info("Task execution completed", map[string]interface{}{
			"worker_id":       workerID,
			"process_id":      task.processID,
			"processing_time": processingTime.String(),
		})
		result.Status = TaskStatusSuccess
		result.Data = data
		for k, v := range metadata {
			if result.Metadata == nil {
				result.Metadata = make(map[string]interface{})
			}
			result.Metadata[k] = v
		}
	}

	if err := tm.store.Update(context.Background(), result); err != nil {
		tm.logger.Error("Failed to store task result", map[string]interface{}{
			"process_id": task.processID,
			"error":      err.Error(),
		})
	}
}

// updateTaskStatus updates the status of a task
func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus) error {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return err
	}

	result.Status = status
	return tm.store.Update(context.Background(), result)
}

// cleanupRoutine periodically cleans up old task results
func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	ticker := time.NewTicker(tm.config.BackgroundTasks.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			if err := tm.store.Cleanup(context.Background(), tm.config.BackgroundTasks.MaxTaskAge); err != nil {
				tm.logger.Error("Failed to cleanup old task results", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// executeHarvest runs one harvest end to end: fetch, normalize, export,
// summarize.
func (tm *TaskManagerImpl) executeHarvest(ctx context.Context, request models.HarvestRequest) (*HarvestTaskData, map[string]interface{}, error) {
	client := naukri.NewClient(tm.config)
	h := harvester.New(tm.config, client)

	result := h.Run(ctx, request.Keyword, request.Location, request.MaxResults)

	if len(result.Records) == 0 {
		return nil, nil, fmt.Errorf("no jobs were harvested (errors: %d)", result.Errors.Count())
	}

	exporter := export.NewExporter(tm.config)
	files, err := exporter.ExportAll(result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to export harvest result: %w", err)
	}

	data := &HarvestTaskData{
		Result:  result,
		Summary: harvester.Summarize(result),
		Files:   files,
		Errors:  result.Errors.Entries(),
	}

	metadata := map[string]interface{}{
		"jobs_collected": len(result.Records),
		"pages_fetched":  result.PagesFetched,
	}

	return data, metadata, nil
}
