package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/platform"
)

// Service writes SRT files next to, or away from, transcribed media.
type Service struct {
	engine Engine
	logger *logging.Logger
}

// NewService wraps an engine.
func NewService(engine Engine, logger *logging.Logger) *Service {
	return &Service{engine: engine, logger: logger}
}

// Engine returns the wrapped engine.
func (s *Service) Engine() Engine {
	return s.engine
}

// TranscribeFile writes <outputDir>/<base>.srt for file and returns its path.
func (s *Service) TranscribeFile(ctx context.Context, file, outputDir string) (string, error) {
	log := s.logger.OrDefault()

	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, file)
	}
	if err := platform.EnsureDir(outputDir); err != nil {
		return "", err
	}

	name := filepath.Base(file)
	srtPath := filepath.Join(outputDir, strings.TrimSuffix(name, filepath.Ext(name))+".srt")

	log.Debug("loading model", "engine", s.engine.Name())
	log.Debug("transcribing", "file", file)
	segments, err := s.engine.Transcribe(ctx, file)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	log.Debug("saving", "path", srtPath, "segments", len(segments))
	if err := WriteSRT(srtPath, segments); err != nil {
		return "", err
	}
	return srtPath, nil
}
