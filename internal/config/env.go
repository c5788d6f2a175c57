package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when present. Variables
// already set in the process environment win.
const DotEnvFile = ".env"

// environment holds the variables that override file values. Empty means unset.
type environment struct {
	DownloadDir    string `env:"TUBELOADER_DOWNLOAD_DIR"`
	StateDir       string `env:"TUBELOADER_STATE_DIR"`
	FFmpeg         string `env:"TUBELOADER_FFMPEG"`
	FFprobe        string `env:"TUBELOADER_FFPROBE"`
	WhisperCLI     string `env:"TUBELOADER_WHISPER_CLI"`
	CookiesFile    string `env:"TUBELOADER_COOKIES"`
	MaxParallel    string `env:"TUBELOADER_MAX_PARALLEL"`
	Engine         string `env:"TUBELOADER_TRANSCRIPTION_ENGINE"`
	Model          string `env:"TUBELOADER_WHISPER_MODEL"`
	ModelDir       string `env:"TUBELOADER_MODEL_DIR"`
	Listen         string `env:"TUBELOADER_LISTEN"`
	LogLevel       string `env:"TUBELOADER_LOG_LEVEL"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	NonInteractive string `env:"NON_INTERACTIVE,default=0"`
	Extras         env.EnvSet
}

// loadDotEnv merges DotEnvFile into the process environment.
var loadDotEnv = func() error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}
	return nil
}

func readEnvironment() (environment, error) {
	var e environment
	if err := loadDotEnv(); err != nil {
		return e, err
	}
	es, err := env.UnmarshalFromEnviron(&e)
	if err != nil {
		return e, fmt.Errorf("read environment: %w", err)
	}
	e.Extras = es
	return e, nil
}

// NonInteractive reports whether NON_INTERACTIVE=1 forbids prompts.
func NonInteractive() bool {
	e, err := readEnvironment()
	if err != nil {
		return false
	}
	return e.NonInteractive == "1" || strings.EqualFold(e.NonInteractive, "true")
}

func (c *Config) applyEnv() error {
	e, err := readEnvironment()
	if err != nil {
		return err
	}

	overrides := []struct {
		value  string
		target *string
	}{
		{e.DownloadDir, &c.Paths.DownloadDir},
		{e.StateDir, &c.Paths.StateDir},
		{e.FFmpeg, &c.Tools.FFmpeg},
		{e.FFprobe, &c.Tools.FFprobe},
		{e.WhisperCLI, &c.Tools.WhisperCLI},
		{e.CookiesFile, &c.Tools.CookiesFile},
		{e.Engine, &c.Transcription.Engine},
		{e.Model, &c.Transcription.Model},
		{e.ModelDir, &c.Transcription.ModelDir},
		{e.Listen, &c.Server.Listen},
		{e.LogLevel, &c.Logging.Level},
		{e.OpenAIBaseURL, &c.Transcription.OpenAIBaseURL},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(o.value); v != "" {
			*o.target = v
		}
	}

	// The key in the file wins over the generic OpenAI variable.
	if c.Transcription.OpenAIAPIKey == "" {
		c.Transcription.OpenAIAPIKey = strings.TrimSpace(e.OpenAIAPIKey)
	}

	if v := strings.TrimSpace(e.MaxParallel); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUBELOADER_MAX_PARALLEL: %w", err)
		}
		c.Download.MaxParallel = n
	}
	return nil
}
