// Package transcribe turns audio or video files into SRT subtitles using a
// local whisper.cpp binary or the OpenAI transcription API.
package transcribe

import (
	"context"
	"errors"
	"fmt"
)

// Engine names
const (
	EngineWhisperCPP = "whispercpp"
	EngineOpenAI     = "openai"
)

// DefaultModel is the whisper model used when none is configured.
const DefaultModel = "tiny"

// ErrFileNotFound is returned when the input media does not exist.
var ErrFileNotFound = errors.New("file not found")

// Segment is one timed piece of text, in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Engine produces timed segments for a media file.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, mediaPath string) ([]Segment, error)
}

// ValidEngine reports whether name is a known engine.
func ValidEngine(name string) bool {
	return name == EngineWhisperCPP || name == EngineOpenAI
}

// UnknownEngineError formats the error for an unsupported engine name.
func UnknownEngineError(name string) error {
	return fmt.Errorf("unknown transcription engine %q (want %s or %s)", name, EngineWhisperCPP, EngineOpenAI)
}
