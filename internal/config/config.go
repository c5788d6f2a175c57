package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/creachadair/atomicfile"
	"github.com/pelletier/go-toml/v2"
)

// AppName names the XDG subdirectories and the project-local config file.
const AppName = "tubeloader"

// FileName is the config file name inside the XDG config directory.
const FileName = "config.toml"

// ProjectFileName is looked up in the working directory.
const ProjectFileName = AppName + ".toml"

// Paths contains directory configuration.
type Paths struct {
	DownloadDir   string `toml:"download_dir"`
	StateDir      string `toml:"state_dir"`
	ServerWorkDir string `toml:"server_work_dir"`
}

// Tools contains external binary locations. Empty paths mean discovery.
type Tools struct {
	FFmpeg           string `toml:"ffmpeg"`
	FFprobe          string `toml:"ffprobe"`
	WhisperCLI       string `toml:"whisper_cli"`
	CookiesFile      string `toml:"cookies_file"`
	AutoInstallYTDLP bool   `toml:"auto_install_ytdlp"`
}

// Download contains queue and format defaults.
type Download struct {
	MaxParallel    int    `toml:"max_parallel"`
	VideoQuality   string `toml:"video_quality"`
	AudioBitrate   int    `toml:"audio_bitrate"`
	Retries        int    `toml:"retries"`
	MetadataSource string `toml:"metadata_source"`
}

// Transcription contains speech-to-text settings.
type Transcription struct {
	Engine   string `toml:"engine"`
	Model    string `toml:"model"`
	ModelDir string `toml:"model_dir"`
	// ModelBaseURL is where missing ggml models are downloaded from.
	ModelBaseURL      string `toml:"model_base_url"`
	AutoDownloadModel bool   `toml:"auto_download_model"`
	Language          string `toml:"language"`
	OpenAIAPIKey      string `toml:"openai_api_key"`
	OpenAIBaseURL     string `toml:"openai_base_url"`
}

// Server contains HTTP API settings.
type Server struct {
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// History toggles the download history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for tubeloader.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tools         Tools         `toml:"tools"`
	Download      Download      `toml:"download"`
	Transcription Transcription `toml:"transcription"`
	Server        Server        `toml:"server"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the config file location under XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults. The returned bool reports whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath := DefaultConfigPath()
	projectPath, err := filepath.Abs(ProjectFileName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path. An existing file
// is left alone unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(expanded); err == nil {
			return fmt.Errorf("config already exists at %s", expanded)
		}
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cfg := Default()
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := atomicfile.WriteData(expanded, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// HistoryPath is the SQLite database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// EnsureDirectories creates the download and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DownloadDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
