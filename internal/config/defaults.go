package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ytget/tubeloader/internal/extract"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
	"github.com/ytget/tubeloader/internal/transcribe"
)

const (
	defaultMaxParallel = 2
	defaultListen      = "127.0.0.1:8000"
	defaultCookiesFile = "cookies.txt"
	defaultLogLevel    = "info"
)

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir:   platform.DefaultDownloadsDir(),
			StateDir:      filepath.Join(xdg.StateHome, AppName),
			ServerWorkDir: filepath.Join(os.TempDir(), AppName+"_temp"),
		},
		Tools: Tools{
			WhisperCLI:  platform.ToolWhisperCLI,
			CookiesFile: defaultCookiesFile,
		},
		Download: Download{
			MaxParallel:    defaultMaxParallel,
			VideoQuality:   string(model.QualityBest),
			AudioBitrate:   int(model.DefaultBitrate),
			Retries:        extract.DefaultRetries,
			MetadataSource: extract.SourceYTDLP,
		},
		Transcription: Transcription{
			Engine:   transcribe.EngineWhisperCPP,
			Model:    transcribe.DefaultModel,
			ModelDir: filepath.Join(xdg.DataHome, AppName, "models"),

			ModelBaseURL:      transcribe.DefaultModelBaseURL,
			AutoDownloadModel: true,
		},
		Server: Server{
			Listen: defaultListen,
		},
		History: History{Enabled: true},
		Logging: Logging{Level: defaultLogLevel},
	}
}
