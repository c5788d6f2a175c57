package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	execute "github.com/alexellis/go-execute/v2"
	"github.com/google/uuid"

	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/media"
)

// DefaultWhisperCLI is the binary name shipped by whisper.cpp.
const DefaultWhisperCLI = "whisper-cli"

// TaskRunner executes a prepared command. Tests replace it.
type TaskRunner func(ctx context.Context, task execute.ExecTask) (execute.ExecResult, error)

func runTask(ctx context.Context, task execute.ExecTask) (execute.ExecResult, error) {
	return task.Execute(ctx)
}

// WhisperCPP runs the whisper.cpp command line tool.
type WhisperCPP struct {
	Binary   string
	Model    string
	Language string
	Models   *ModelStore
	FFmpeg   media.Runner
	TempDir  string
	Logger   *logging.Logger
	Run      TaskRunner
}

// NewWhisperCPP fills defaults for empty fields.
func NewWhisperCPP(binary, modelDir, model, language string, ffmpeg media.Runner, logger *logging.Logger) *WhisperCPP {
	if binary == "" {
		binary = DefaultWhisperCLI
	}
	if model == "" {
		model = DefaultModel
	}
	return &WhisperCPP{
		Binary:   binary,
		Model:    model,
		Language: language,
		Models:   &ModelStore{Dir: modelDir, Logger: logger},
		FFmpeg:   ffmpeg,
		Logger:   logger,
		Run:      runTask,
	}
}

// Name implements Engine.
func (w *WhisperCPP) Name() string { return EngineWhisperCPP }

// ModelPath is <model_dir>/ggml-<model>.bin.
func (w *WhisperCPP) ModelPath() string {
	return w.Models.Path(w.Model)
}

// Transcribe converts mediaPath to 16 kHz mono WAV, runs whisper-cli with
// JSON output and maps its offsets to segments.
func (w *WhisperCPP) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	log := w.Logger.OrDefault()
	modelPath, err := w.Models.Ensure(ctx, w.Model)
	if err != nil {
		return nil, err
	}

	dir := w.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	base := filepath.Join(dir, "tubeloader-"+uuid.NewString())
	wav := base + ".wav"
	jsonOut := base + ".json"
	defer func() {
		_ = os.Remove(wav)
		_ = os.Remove(jsonOut)
	}()

	if err := w.FFmpeg.Run(ctx, media.WAVArgs(mediaPath, wav), 0, nil); err != nil {
		return nil, fmt.Errorf("convert to wav: %w", err)
	}

	args := []string{"-m", modelPath, "-f", wav, "-oj", "-of", base}
	if w.Language != "" {
		args = append(args, "-l", w.Language)
	}
	log.Debug("running whisper.cpp", "binary", w.Binary, "args", strings.Join(args, " "))

	res, err := w.Run(ctx, execute.ExecTask{
		Command: w.Binary,
		Args:    args,
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", w.Binary, err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%s exited with code %d: %s", w.Binary, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	data, err := os.ReadFile(jsonOut)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	return parseWhisperJSON(data)
}

// whisperOutput is the -oj document.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperJSON(data []byte) ([]Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}
	segments := make([]Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: float64(t.Offsets.From) / 1000,
			End:   float64(t.Offsets.To) / 1000,
			Text:  text,
		})
	}
	return segments, nil
}
