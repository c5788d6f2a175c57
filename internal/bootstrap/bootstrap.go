// Package bootstrap builds the shared download stack from a loaded Config.
// The GUI, the CLI and the HTTP server all start here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/download"
	"github.com/ytget/tubeloader/internal/extract"
	"github.com/ytget/tubeloader/internal/history"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/media"
	"github.com/ytget/tubeloader/internal/pipeline"
	"github.com/ytget/tubeloader/internal/platform"
	"github.com/ytget/tubeloader/internal/transcribe"
)

// Stack holds the wired components. History is nil when disabled.
type Stack struct {
	Config    *config.Config
	Logger    *logging.Logger
	YTDLP     *extract.YTDLP
	Extractor extract.Extractor
	FFmpeg    *media.FFmpeg
	Probe     *media.Probe
	// Transcriber is nil when the configured engine cannot be built.
	Transcriber    transcribe.Engine
	TranscriberErr error
	Pipeline       *pipeline.Pipeline
	History        *history.Store
}

// Build wires extractor, ffmpeg, transcriber, pipeline and history.
func Build(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Stack, error) {
	logger = logger.OrDefault()
	cwd, _ := os.Getwd()

	ffmpegPath, err := platform.ResolveTool(cfg.Tools.FFmpeg, cwd, platform.ToolFFmpeg)
	if err != nil {
		logger.Warn("ffmpeg not found, falling back to PATH lookup at run time", "err", err)
		ffmpegPath = cfg.Tools.FFmpeg
	}
	ffprobePath, err := platform.ResolveTool(cfg.Tools.FFprobe, cwd, platform.ToolFFprobe)
	if err != nil {
		logger.Debug("ffprobe not found", "err", err)
		ffprobePath = cfg.Tools.FFprobe
	}

	s := &Stack{
		Config: cfg,
		Logger: logger,
		FFmpeg: media.NewFFmpeg(ffmpegPath, logger.With("component", "ffmpeg")),
		Probe:  media.NewProbe(ffprobePath),
		YTDLP:  extract.NewYTDLP(cfg.Tools.CookiesFile, logger.With("component", "yt-dlp")),
	}

	if cfg.Tools.AutoInstallYTDLP {
		if err := s.YTDLP.EnsureInstalled(ctx); err != nil {
			return nil, err
		}
	}

	chain, err := extract.NewChain(cfg.Download.MetadataSource, s.YTDLP, extract.NewNative())
	if err != nil {
		return nil, err
	}
	s.Extractor = extract.WithRetry(chain, cfg.Download.Retries, extract.DefaultBackoff, logger)

	s.Transcriber, s.TranscriberErr = NewTranscriber(cfg, cwd, s.FFmpeg, logger)
	if s.TranscriberErr != nil {
		logger.Debug("transcription unavailable", "err", s.TranscriberErr)
	}

	s.Pipeline = pipeline.New(s.Extractor, s.FFmpeg, s.Transcriber, logger.With("component", "pipeline"))
	s.Pipeline.Prober = s.Probe

	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("history disabled", "path", cfg.HistoryPath(), "err", err)
		} else {
			s.History = store
		}
	}
	return s, nil
}

// NewTranscriber builds the engine named in cfg.
func NewTranscriber(cfg *config.Config, cwd string, ffmpeg media.Runner, logger *logging.Logger) (transcribe.Engine, error) {
	tc := cfg.Transcription
	switch tc.Engine {
	case "", transcribe.EngineWhisperCPP:
		binary, err := platform.ResolveTool(cfg.Tools.WhisperCLI, cwd, platform.ToolWhisperCLI)
		if err != nil {
			return nil, err
		}
		log := logger.With("component", "whisper")
		engine := transcribe.NewWhisperCPP(binary, tc.ModelDir, tc.Model, tc.Language, ffmpeg, log)
		engine.Models = ModelStore(cfg, log)
		return engine, nil
	case transcribe.EngineOpenAI:
		engine, err := transcribe.NewOpenAI(tc.OpenAIAPIKey, tc.OpenAIBaseURL, tc.Language)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, transcribe.UnknownEngineError(tc.Engine)
	}
}

// RequireTranscriber returns the engine or the reason it is missing.
func (s *Stack) RequireTranscriber() (transcribe.Engine, error) {
	if s.Transcriber != nil {
		return s.Transcriber, nil
	}
	if s.TranscriberErr != nil {
		return nil, fmt.Errorf("transcription unavailable: %w", s.TranscriberErr)
	}
	return nil, errors.New("transcription unavailable")
}

// NewDownloadService starts a queue over the pipeline with history attached.
func (s *Stack) NewDownloadService() *download.Service {
	svc := download.NewService(s.Pipeline, s.Config.Download.MaxParallel, s.Logger.With("component", "download"))
	if s.History != nil {
		svc.SetRecorder(s.History)
	}
	return svc
}

// ModelStore describes where whisper.cpp models live. Downloads are enabled
// by transcription.auto_download_model.
func ModelStore(cfg *config.Config, logger *logging.Logger) *transcribe.ModelStore {
	tc := cfg.Transcription
	store := &transcribe.ModelStore{Dir: tc.ModelDir, BaseURL: tc.ModelBaseURL, Logger: logger}
	if tc.AutoDownloadModel {
		store.Fetcher = transcribe.HTTPFetcher{}
	}
	return store
}

// Requirements lists the external binaries for doctor checks.
func Requirements(cfg *config.Config) []platform.Requirement {
	return []platform.Requirement{
		{Name: "FFmpeg", Binary: platform.ToolFFmpeg, Configured: cfg.Tools.FFmpeg, Purpose: "merge, trim and convert"},
		{Name: "FFprobe", Binary: platform.ToolFFprobe, Configured: cfg.Tools.FFprobe, Optional: true, Purpose: "progress for unknown durations"},
		{Name: "yt-dlp", Binary: platform.ToolYTDLP, Optional: true, Purpose: "stream extraction (installed on demand)"},
		{Name: "whisper.cpp", Binary: platform.ToolWhisperCLI, Configured: cfg.Tools.WhisperCLI, Optional: true, Purpose: "local transcription"},
	}
}

// Close releases the history database.
func (s *Stack) Close() error {
	if s == nil || s.History == nil {
		return nil
	}
	return s.History.Close()
}
