package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/ytget/tubeloader/internal/extract"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/media"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
	"github.com/ytget/tubeloader/internal/transcribe"
)

// LockFileName is the reservation lock created in each output directory.
const LockFileName = ".tubeloader.lock"

// Result describes what a run produced.
type Result struct {
	Title string
	Info  *model.VideoInfo
	// Files holds the produced paths, primary first.
	Files []string
}

// Pipeline wires the extractor, ffmpeg and the optional transcriber.
type Pipeline struct {
	Extractor   extract.Extractor
	Runner      media.Runner
	Transcriber transcribe.Engine
	// Prober measures inputs when the metadata carries no duration.
	Prober Prober
	Fs     afero.Fs
	// LockPath overrides the per-directory lock file. "-" disables locking.
	LockPath string
	Logger   *logging.Logger
}

// Prober reports the length of a local media file.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// New creates a pipeline on the OS filesystem.
func New(extractor extract.Extractor, runner media.Runner, transcriber transcribe.Engine, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		Extractor:   extractor,
		Runner:      runner,
		Transcriber: transcriber,
		Fs:          afero.NewOsFs(),
		Logger:      logger,
	}
}

// run carries the state of one Run call.
type run struct {
	p     *Pipeline
	req   model.Request
	info  *model.VideoInfo
	temps *platform.TempSet
	emit  func(model.Event)
	log   *logging.Logger
	// reserved are placeholders to remove if the run fails.
	reserved []string
}

// Run executes the request and reports through emit, which may be nil.
func (p *Pipeline) Run(ctx context.Context, req model.Request, emit func(model.Event)) (res *Result, err error) {
	if emit == nil {
		emit = func(model.Event) {}
	}
	r := &run{p: p, log: p.Logger.OrDefault().With("url", req.URL)}
	r.emit = func(e model.Event) {
		if e.Title == "" && r.info != nil {
			e.Title = r.info.DisplayTitle()
		}
		emit(e)
	}

	defer func() {
		if err != nil {
			r.rollback()
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			r.log.Error("download failed", "err", err)
			r.emit(model.Event{Kind: model.EventError, Message: err.Error(), ETASec: -1})
		}
	}()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.OutputDir == "" {
		req.OutputDir = platform.DefaultDownloadsDir()
	}
	if err := p.Fs.MkdirAll(req.OutputDir, platform.DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	r.req = req

	r.stage(model.StageInfo, "Getting video info...")
	info, err := p.Extractor.Info(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	r.info = info
	r.log = r.log.With("title", info.DisplayTitle())

	final, err := r.reserve(ctx, info.DisplayTitle(), req.Format.Extension())
	if err != nil {
		return nil, err
	}

	r.temps = platform.NewTempSet(p.Fs, req.OutputDir)
	defer func() {
		if cerr := r.temps.Cleanup(); cerr != nil {
			r.log.Warn("temp cleanup failed", "err", cerr)
		}
	}()

	switch req.Format {
	case model.FormatMP4:
		err = r.mp4(ctx, final)
	case model.FormatMP3:
		err = r.mp3(ctx, final)
	}
	if err != nil {
		return nil, err
	}

	files, err := r.extras(ctx, final)
	if err != nil {
		return nil, err
	}
	r.reserved = nil

	for _, f := range files {
		platform.NotifyMediaScanner(f)
	}
	r.log.Info("download finished", "files", len(files))
	r.emit(model.Event{
		Kind:    model.EventCompleted,
		Stage:   model.StageCompleted,
		Message: "Saved to: " + filepath.Base(files[0]),
		Percent: 100,
		ETASec:  -1,
		File:    files[0],
	})
	return &Result{Title: info.DisplayTitle(), Info: info, Files: files}, nil
}

func (r *run) lockPath() string {
	switch r.p.LockPath {
	case "-":
		return ""
	case "":
		return filepath.Join(r.req.OutputDir, LockFileName)
	default:
		return r.p.LockPath
	}
}

// reserve claims a unique final path and remembers it for rollback.
func (r *run) reserve(ctx context.Context, title, ext string) (string, error) {
	path, err := platform.ReservePath(ctx, r.p.Fs, r.lockPath(), r.req.OutputDir, title, ext)
	if err != nil {
		return "", err
	}
	r.reserved = append(r.reserved, path)
	return path, nil
}

func (r *run) rollback() {
	for _, p := range r.reserved {
		_ = r.p.Fs.Remove(p)
	}
	r.reserved = nil
}

func (r *run) stage(stage model.Stage, msg string) {
	r.log.Debug(msg, "stage", stage)
	r.emit(model.Event{Kind: model.EventInfo, Stage: stage, Message: msg, ETASec: -1})
}

// fetchProgress forwards extractor progress as events.
func (r *run) fetchProgress(stage model.Stage, msg string) func(extract.Progress) {
	return func(pr extract.Progress) {
		eta := -1
		if pr.ETA > 0 {
			eta = int(pr.ETA.Seconds())
		}
		r.emit(model.Event{
			Kind:    model.EventProgress,
			Stage:   stage,
			Message: msg,
			Percent: pr.Percent,
			ETASec:  eta,
			Speed:   pr.Speed,
		})
	}
}

// ffmpegProgress forwards ffmpeg progress as events.
func (r *run) ffmpegProgress(stage model.Stage, msg string) func(float64) {
	return func(fraction float64) {
		r.emit(model.Event{
			Kind:    model.EventProgress,
			Stage:   stage,
			Message: msg,
			Percent: fraction * 100,
			ETASec:  -1,
		})
	}
}

func (r *run) fetch(ctx context.Context, selector, dest string, stage model.Stage, msg string) error {
	r.stage(stage, msg)
	return r.p.Extractor.Fetch(ctx, r.req.URL, selector, dest, r.fetchProgress(stage, msg))
}

func (r *run) ffmpeg(ctx context.Context, args []string, stage model.Stage, msg string) error {
	r.stage(stage, msg)
	total := r.info.Duration
	if d := media.RangeDuration(r.req.Trim); d > 0 {
		total = d
	}
	if total <= 0 && r.p.Prober != nil {
		if in := inputOf(args); in != "" {
			if d, err := r.p.Prober.Duration(ctx, in); err == nil {
				total = d
			} else {
				r.log.Debug("probe failed", "path", in, "err", err)
			}
		}
	}
	return r.p.Runner.Run(ctx, args, total, r.ffmpegProgress(stage, msg))
}

// inputOf returns the first -i argument.
func inputOf(args []string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "-i" {
			return args[i+1]
		}
	}
	return ""
}
