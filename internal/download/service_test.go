package download

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ytget/tubeloader/internal/history"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/pipeline"
)

// fakeProcessor blocks each run until released or cancelled.
type fakeProcessor struct {
	mu       sync.Mutex
	running  int
	peak     int
	release  chan struct{}
	err      error
	started  chan string
	received []model.Request
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{release: make(chan struct{}), started: make(chan string, 16)}
}

func (f *fakeProcessor) Run(ctx context.Context, req model.Request, emit func(model.Event)) (*pipeline.Result, error) {
	f.mu.Lock()
	f.running++
	if f.running > f.peak {
		f.peak = f.running
	}
	f.received = append(f.received, req)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()

	f.started <- req.URL
	emit(model.Event{Kind: model.EventInfo, Stage: model.StageInfo, Message: "Getting video info...", Title: "Clip", ETASec: -1})
	emit(model.Event{Kind: model.EventProgress, Stage: model.StageDownloadingVideo, Percent: 42, Speed: "1 MB/s", ETASec: 7})

	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Result{Title: "Clip", Files: []string{"/nonexistent/Clip.mp4"}}, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (f *fakeRecorder) Record(ctx context.Context, e history.Entry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), nil
}

func request(id string) model.Request {
	return model.Request{URL: "https://youtube.com/watch?v=" + id, Format: model.FormatMP4}
}

func waitStarted(t *testing.T, f *fakeProcessor) string {
	t.Helper()
	select {
	case url := <-f.started:
		return url
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a task to start")
		return ""
	}
}

func waitDone(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestNewService(t *testing.T) {
	service := NewService(newFakeProcessor(), 2, logging.Discard())

	if service.maxParallel != 2 {
		t.Errorf("Expected maxParallel to be 2, got %d", service.maxParallel)
	}
	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
	if NewService(newFakeProcessor(), -3, nil).maxParallel != 0 {
		t.Error("negative maxParallel should mean unbounded")
	}
}

func TestAddTask(t *testing.T) {
	proc := newFakeProcessor()
	service := NewService(proc, 1, logging.Discard())
	defer close(proc.release)

	task1, err := service.AddTask(request("test1"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task1.URL != "https://youtube.com/watch?v=test1" {
		t.Errorf("unexpected URL %s", task1.URL)
	}
	if task1.Status != model.TaskStatusStarting {
		t.Errorf("Expected status Starting, got %s", task1.Status)
	}

	// Duplicate URL and format
	_, err = service.AddTask(request("test1"))
	if !errors.Is(err, ErrDuplicateTask) {
		t.Errorf("Expected ErrDuplicateTask, got %v", err)
	}

	// Same URL as MP3 is a different job
	mp3 := request("test1")
	mp3.Format = model.FormatMP3
	if _, err := service.AddTask(mp3); err != nil {
		t.Errorf("Expected MP3 variant to be accepted, got %v", err)
	}

	task2, err := service.AddTask(request("test2"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task2.Status != model.TaskStatusPending {
		t.Errorf("Expected second task to wait, got %s", task2.Status)
	}
}

func TestAddTask_Validation(t *testing.T) {
	service := NewService(newFakeProcessor(), 1, logging.Discard())

	if _, err := service.AddTask(model.Request{URL: "", Format: model.FormatMP4}); !errors.Is(err, model.ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
	bad := request("x")
	bad.Trim = model.TimeRange{End: "00:00:10"}
	if _, err := service.AddTask(bad); err == nil {
		t.Error("expected trim validation error")
	}
	if len(service.GetAllTasks()) != 0 {
		t.Error("invalid requests must not be queued")
	}
}

func TestTaskLifecycle(t *testing.T) {
	proc := newFakeProcessor()
	service := NewService(proc, 1, logging.Discard())
	recorder := &fakeRecorder{}
	service.SetRecorder(recorder)

	var mu sync.Mutex
	var updates []*model.DownloadTask
	service.SetUpdateCallback(func(task *model.DownloadTask) {
		mu.Lock()
		updates = append(updates, task)
		mu.Unlock()
	})

	task, err := service.AddTask(request("life"))
	if err != nil {
		t.Fatal(err)
	}
	waitStarted(t, proc)

	// progress has been applied
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := service.GetTask(task.ID)
		if got.Percent == 42 {
			if got.Status != model.TaskStatusDownloading || got.Title != "Clip" || got.ETASec != 7 || got.Speed != "1 MB/s" {
				t.Errorf("unexpected progress snapshot: %+v", got)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("progress not applied: %+v", got)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if service.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, expected 1", service.ActiveCount())
	}

	close(proc.release)
	waitDone(t, service)

	got, _ := service.GetTask(task.ID)
	if got.Status != model.TaskStatusCompleted || got.Percent != 100 || got.PrimaryOutput() != "/nonexistent/Clip.mp4" {
		t.Errorf("final snapshot = %+v", got)
	}
	if service.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d after finish", service.ActiveCount())
	}

	mu.Lock()
	last := updates[len(updates)-1]
	mu.Unlock()
	if last.Status != model.TaskStatusCompleted {
		t.Errorf("last update status = %s", last.Status)
	}

	if len(recorder.entries) != 1 || recorder.entries[0].Status != "Completed" || recorder.entries[0].Title != "Clip" {
		t.Errorf("history entries = %+v", recorder.entries)
	}

	if err := service.RemoveTask(task.ID); err != nil {
		t.Errorf("RemoveTask: %v", err)
	}
	if _, ok := service.GetTask(task.ID); ok {
		t.Error("task should be gone")
	}
}

func TestTaskError(t *testing.T) {
	proc := newFakeProcessor()
	proc.err = errors.New("ffmpeg exited with code 1")
	close(proc.release)

	service := NewService(proc, 0, logging.Discard())
	task, _ := service.AddTask(request("broken"))
	waitStarted(t, proc)
	waitDone(t, service)

	got, _ := service.GetTask(task.ID)
	if got.Status != model.TaskStatusError || !strings.Contains(got.LastError, "code 1") {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestMaxParallelQueuesInOrder(t *testing.T) {
	proc := newFakeProcessor()
	service := NewService(proc, 2, logging.Discard())

	for _, id := range []string{"a", "b", "c", "d"} {
		if _, err := service.AddTask(request(id)); err != nil {
			t.Fatal(err)
		}
	}
	waitStarted(t, proc)
	waitStarted(t, proc)

	pending := 0
	for _, task := range service.GetAllTasks() {
		if task.Status == model.TaskStatusPending {
			pending++
		}
	}
	if pending != 2 {
		t.Errorf("expected 2 pending tasks, got %d", pending)
	}

	close(proc.release)
	waitStarted(t, proc)
	waitStarted(t, proc)
	waitDone(t, service)

	if proc.peak > 2 {
		t.Errorf("peak concurrency %d exceeds limit", proc.peak)
	}
	tasks := service.GetAllTasks()
	for i, task := range tasks {
		if task.Status != model.TaskStatusCompleted {
			t.Errorf("task %d status = %s", i, task.Status)
		}
	}
	if tasks[0].URL != request("a").URL || tasks[3].URL != request("d").URL {
		t.Errorf("tasks not sorted by queue time: %s ... %s", tasks[0].URL, tasks[3].URL)
	}
}

func TestUnboundedParallelism(t *testing.T) {
	proc := newFakeProcessor()
	service := NewService(proc, 0, logging.Discard())

	for _, id := range []string{"a", "b", "c"} {
		if _, err := service.AddTask(request(id)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		waitStarted(t, proc)
	}
	if service.ActiveCount() != 3 {
		t.Errorf("ActiveCount = %d, expected 3", service.ActiveCount())
	}
	close(proc.release)
	waitDone(t, service)
}

func TestStopTask(t *testing.T) {
	proc := newFakeProcessor()
	service := NewService(proc, 1, logging.Discard())

	running, _ := service.AddTask(request("run"))
	pending, _ := service.AddTask(request("wait"))
	waitStarted(t, proc)

	if err := service.StopTask(pending.ID); err != nil {
		t.Fatalf("StopTask pending: %v", err)
	}
	if got, _ := service.GetTask(pending.ID); got.Status != model.TaskStatusStopped {
		t.Errorf("pending task status = %s", got.Status)
	}

	if err := service.StopTask(running.ID); err != nil {
		t.Fatalf("StopTask running: %v", err)
	}
	waitDone(t, service)

	if got, _ := service.GetTask(running.ID); got.Status != model.TaskStatusStopped {
		t.Errorf("running task status = %s", got.Status)
	}
	if err := service.StopTask(running.ID); err == nil {
		t.Error("stopping a finished task should fail")
	}
	if err := service.StopTask("missing"); err == nil {
		t.Error("stopping an unknown task should fail")
	}

	// the stopped pending task never ran
	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.received) != 1 {
		t.Errorf("processor ran %d times, expected 1", len(proc.received))
	}
}

func TestRemoveTask_Active(t *testing.T) {
	proc := newFakeProcessor()
	service := NewService(proc, 1, logging.Discard())
	task, _ := service.AddTask(request("busy"))
	waitStarted(t, proc)

	if err := service.RemoveTask(task.ID); err == nil {
		t.Error("removing an active task should fail")
	}
	close(proc.release)
	waitDone(t, service)
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}
	if !strings.HasPrefix(id1, TaskIDPrefix) {
		t.Errorf("Expected ID to start with 'task-', got: %s", id1)
	}
	// Check UUID format (task- + 36 chars for UUID)
	if len(id1) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(id1), id1)
	}
}
