package main

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/model"
)

// taskReporter renders task snapshots, as a bar on a terminal or as log
// lines otherwise.
type taskReporter struct {
	mu     sync.Mutex
	out    io.Writer
	logger *logging.Logger
	useBar bool
	bar    *progressbar.ProgressBar
	stages map[string]string
}

func newTaskReporter(out io.Writer, logger *logging.Logger, single bool) *taskReporter {
	return &taskReporter{
		out:    out,
		logger: logger.OrDefault(),
		useBar: single && isTerminal(out),
		stages: make(map[string]string),
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// update is the download service callback.
func (r *taskReporter) update(task *model.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.Status.IsFinished() {
		r.finishBar()
		switch task.Status {
		case model.TaskStatusCompleted:
			r.logger.Info("download finished", "task", task.ID, "title", task.GetDisplayTitle(), "path", task.PrimaryOutput())
		case model.TaskStatusError:
			r.logger.Error("download failed", "task", task.ID, "url", task.URL, "err", task.LastError)
		default:
			r.logger.Warn("download stopped", "task", task.ID, "url", task.URL)
		}
		return
	}

	if r.useBar {
		r.renderBar(task)
		return
	}
	// Log stage changes only; byte progress would flood non-interactive output.
	if task.Message != "" && r.stages[task.ID] != task.Message {
		r.stages[task.ID] = task.Message
		r.logger.Info(task.Message, "task", task.ID, "percent", task.Percent)
	}
}

func (r *taskReporter) renderBar(task *model.DownloadTask) {
	if r.bar == nil {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription(task.Message),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionFullWidth(),
		)
	}
	desc := task.Message
	if task.Speed != "" {
		desc += " " + task.Speed
	}
	if task.ETASec > 0 {
		desc += " ETA " + task.GetETAString()
	}
	r.bar.Describe(desc)
	_ = r.bar.Set(task.Percent)
}

func (r *taskReporter) finishBar() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}

// modelDownloadBar shows whisper model downloads as a byte bar on a terminal.
func modelDownloadBar(out io.Writer) func(name string, size int64) io.Writer {
	if !isTerminal(out) {
		return nil
	}
	return func(name string, size int64) io.Writer {
		return progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Downloading "+name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(out, "\n") }),
		)
	}
}
