package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/tubeloader/internal/history"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/model"
)

// TaskIDPrefix prefixes every task ID.
const TaskIDPrefix = "task-"

// recordTimeout bounds a history write.
const recordTimeout = 5 * time.Second

// ErrDuplicateTask is returned when an unfinished task already covers the same URL and format.
var ErrDuplicateTask = errors.New("task already exists for URL")

// Service handles download operations
type Service struct {
	tasks       map[string]*model.DownloadTask
	cancels     map[string]context.CancelFunc
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	processor   Processor
	recorder    Recorder
	logger      *logging.Logger
	onUpdate    func(*model.DownloadTask) // callback for UI updates
	wg          sync.WaitGroup
}

var _ Downloader = (*Service)(nil)

// NewService creates a new download service. maxParallel 0 means unbounded.
func NewService(processor Processor, maxParallel int, logger *logging.Logger) *Service {
	if maxParallel < 0 {
		maxParallel = 0
	}
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		cancels:     make(map[string]context.CancelFunc),
		maxParallel: maxParallel,
		processor:   processor,
		logger:      logger.OrDefault(),
	}
}

// SetUpdateCallback sets the callback function for task updates. The
// callback receives a snapshot and runs on the worker goroutine.
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// SetRecorder enables history recording for finished tasks
func (s *Service) SetRecorder(r Recorder) {
	s.tasksMutex.Lock()
	s.recorder = r
	s.tasksMutex.Unlock()
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	if max < 0 {
		max = 0
	}
	s.tasksMutex.Lock()
	s.maxParallel = max
	s.tasksMutex.Unlock()
	s.startPendingTasks()
}

// AddTask validates req and queues it
func (s *Service) AddTask(req model.Request) (*model.DownloadTask, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.tasksMutex.Lock()

	// Check for duplicate URLs
	for _, task := range s.tasks {
		if task.URL == req.URL && task.Request.Format == req.Format && !task.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, req.URL)
		}
	}

	task := &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       req.URL,
		Request:   req,
		Status:    model.TaskStatusPending,
		Progress:  0.0,
		Percent:   0,
		ETASec:    -1,
		StartedAt: time.Now(),
	}
	s.tasks[task.ID] = task

	// Try to start task if we have capacity; the worker reports its own start
	launched := s.hasCapacityLocked()
	if launched {
		s.launchLocked(task)
	}
	snapshot := task.Clone()
	s.tasksMutex.Unlock()

	s.logger.Info("task queued", "task", task.ID, "url", req.URL, "format", req.Format)
	if !launched {
		s.notifyUpdate(snapshot)
	}
	return snapshot, nil
}

// GetTask returns a snapshot of a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	return task.Clone(), true
}

// GetAllTasks returns snapshots of all tasks, oldest first
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	s.tasksMutex.RUnlock()

	sortTasks(tasks)
	return tasks
}

// ActiveCount returns the number of tasks owned by a worker
func (s *Service) ActiveCount() int {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.activeCount
}

// StopTask cancels a running task or drops a pending one
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}

	switch {
	case task.Status == model.TaskStatusPending:
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
	case task.Status.IsActive():
		task.Status = model.TaskStatusStopping
		if cancel := s.cancels[id]; cancel != nil {
			cancel()
		}
	default:
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}
	snapshot := task.Clone()
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return nil
}

// RemoveTask forgets a finished task
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	if !task.Status.IsFinished() {
		return fmt.Errorf("task is still %s", task.Status)
	}
	delete(s.tasks, id)
	return nil
}

// StopAll cancels every running task and drops pending ones
func (s *Service) StopAll() {
	for _, t := range s.GetAllTasks() {
		if !t.Status.IsFinished() {
			_ = s.StopTask(t.ID)
		}
	}
}

// Wait blocks until no worker is running or ctx is done
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) hasCapacityLocked() bool {
	return s.maxParallel == 0 || s.activeCount < s.maxParallel
}

// launchLocked claims a worker slot for task. Caller holds tasksMutex.
func (s *Service) launchLocked(task *model.DownloadTask) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancels[task.ID] = cancel
	s.activeCount++
	task.Status = model.TaskStatusStarting
	s.wg.Add(1)
	go s.runTask(ctx, task)
}

// runTask runs the pipeline for task
func (s *Service) runTask(ctx context.Context, task *model.DownloadTask) {
	defer s.wg.Done()

	s.tasksMutex.RLock()
	req := task.Request
	started := task.Clone()
	s.tasksMutex.RUnlock()
	s.notifyUpdate(started)

	log := s.logger.With("task", task.ID)
	result, err := s.processor.Run(ctx, req, func(e model.Event) {
		s.applyEvent(task, e)
	})

	// Update final status
	s.tasksMutex.Lock()
	if cancel := s.cancels[task.ID]; cancel != nil {
		cancel()
		delete(s.cancels, task.ID)
	}
	s.activeCount--
	if err != nil {
		if ctx.Err() != nil {
			task.Status = model.TaskStatusStopped
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Stage = model.StageCompleted
		task.Progress = 1.0
		task.Percent = 100
		task.ETASec = -1
		if result != nil {
			task.Title = result.Title
			task.OutputPaths = append([]string(nil), result.Files...)
			if info, statErr := os.Stat(task.PrimaryOutput()); statErr == nil {
				task.FileSize = info.Size()
			}
		}
	}
	task.FinishedAt = time.Now()
	finished := task.Clone()
	recorder := s.recorder
	s.tasksMutex.Unlock()

	log.Info("task finished", "status", finished.Status, "files", len(finished.OutputPaths))
	s.notifyUpdate(finished)
	s.record(recorder, finished)

	// Try to start next pending task
	s.startPendingTasks()
}

// applyEvent updates task progress from a pipeline event
func (s *Service) applyEvent(task *model.DownloadTask, e model.Event) {
	s.tasksMutex.Lock()
	if e.Title != "" {
		task.Title = e.Title
	}
	switch e.Kind {
	case model.EventInfo, model.EventProgress:
		if task.Status != model.TaskStatusStopping {
			task.Status = model.StatusForStage(e.Stage)
		}
		if e.Stage != task.Stage {
			task.Percent, task.Progress, task.Speed = 0, 0, ""
		}
		task.Stage = e.Stage
		task.Message = e.Message
		if e.Kind == model.EventProgress {
			task.Percent = int(e.Percent)
			task.Progress = e.Percent / 100.0
			task.Speed = e.Speed
		}
		task.ETASec = e.ETASec
	case model.EventError, model.EventCompleted:
		task.Message = e.Message
	}
	snapshot := task.Clone()
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
}

// startPendingTasks starts the oldest pending tasks while there is capacity
func (s *Service) startPendingTasks() {
	s.tasksMutex.Lock()

	var pending []*model.DownloadTask
	for _, task := range s.tasks {
		if task.Status == model.TaskStatusPending {
			pending = append(pending, task)
		}
	}
	sortTasks(pending)

	var started []*model.DownloadTask
	for _, task := range pending {
		if !s.hasCapacityLocked() {
			break
		}
		s.launchLocked(task)
		started = append(started, task.Clone())
	}
	s.tasksMutex.Unlock()

	for _, t := range started {
		s.notifyUpdate(t)
	}
}

func (s *Service) record(recorder Recorder, task *model.DownloadTask) {
	if recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	_, err := recorder.Record(ctx, history.Entry{
		TaskID:     task.ID,
		URL:        task.URL,
		Title:      task.GetDisplayTitle(),
		Format:     string(task.Request.Format),
		Trim:       task.Request.Trim.String(),
		Files:      task.OutputPaths,
		Status:     task.Status.String(),
		Error:      task.LastError,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	})
	if err != nil {
		s.logger.Warn("failed to record history", "task", task.ID, "err", err)
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.tasksMutex.RLock()
	cb := s.onUpdate
	s.tasksMutex.RUnlock()
	if cb != nil {
		cb(task)
	}
}

func sortTasks(tasks []*model.DownloadTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].StartedAt.Equal(tasks[j].StartedAt) {
			return tasks[i].StartedAt.Before(tasks[j].StartedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
