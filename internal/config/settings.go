package config

import (
	"strconv"

	"fyne.io/fyne/v2"

	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir      = "download_directory"
	KeyMaxParallel      = "max_parallel_downloads"
	KeyDefaultFormat    = "default_format"
	KeyVideoQuality     = "video_quality"
	KeyAudioBitrate     = "audio_bitrate"
	KeyLanguage         = "app_language"
	KeyAutoOpenComplete = "auto_open_on_complete"
)

// Default values
const (
	DefaultMaxParallel      = 2
	MaxParallelLimit        = 10
	DefaultFormat           = model.FormatMP4
	DefaultLanguage         = "en"
	DefaultAutoOpenComplete = false
)

// Settings manages the desktop preferences. Values missing from the
// preferences store are seeded from the loaded Config.
type Settings struct {
	app  fyne.App
	seed *Config
}

// NewSettings creates a new settings manager. cfg may be nil.
func NewSettings(app fyne.App, cfg *Config) *Settings {
	return &Settings{app: app, seed: cfg}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		dir = platform.DefaultDownloadsDir()
		if s.seed != nil && s.seed.Paths.DownloadDir != "" {
			dir = s.seed.Paths.DownloadDir
		}
		s.SetDownloadDirectory(dir)
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		value = DefaultMaxParallel
		if s.seed != nil && s.seed.Download.MaxParallel > 0 {
			value = s.seed.Download.MaxParallel
		}
		s.SetMaxParallelDownloads(value)
		return s.app.Preferences().Int(KeyMaxParallel)
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxParallelLimit {
		count = MaxParallelLimit
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetDefaultFormat returns the format preselected in the form
func (s *Settings) GetDefaultFormat() model.MediaFormat {
	f, err := model.ParseMediaFormat(s.app.Preferences().String(KeyDefaultFormat))
	if err != nil {
		s.SetDefaultFormat(DefaultFormat)
		return DefaultFormat
	}
	return f
}

// SetDefaultFormat sets the preselected format
func (s *Settings) SetDefaultFormat(f model.MediaFormat) {
	if !f.Valid() {
		f = DefaultFormat
	}
	s.app.Preferences().SetString(KeyDefaultFormat, string(f))
}

// GetVideoQuality returns the MP4 quality cap
func (s *Settings) GetVideoQuality() model.VideoQuality {
	raw := s.app.Preferences().String(KeyVideoQuality)
	if raw == "" && s.seed != nil {
		raw = s.seed.Download.VideoQuality
	}
	q, err := model.ParseVideoQuality(raw)
	if err != nil {
		q = model.QualityBest
	}
	if raw != string(q) {
		s.SetVideoQuality(q)
	}
	return q
}

// SetVideoQuality sets the MP4 quality cap
func (s *Settings) SetVideoQuality(q model.VideoQuality) {
	s.app.Preferences().SetString(KeyVideoQuality, string(q))
}

// GetAudioBitrate returns the MP3 bitrate
func (s *Settings) GetAudioBitrate() model.AudioBitrate {
	value := s.app.Preferences().Int(KeyAudioBitrate)
	if value == 0 && s.seed != nil {
		value = s.seed.Download.AudioBitrate
	}
	b, err := model.ParseAudioBitrate(strconv.Itoa(value))
	if err != nil {
		b = model.DefaultBitrate
	}
	if int(b) != value {
		s.SetAudioBitrate(b)
	}
	return b
}

// SetAudioBitrate sets the MP3 bitrate
func (s *Settings) SetAudioBitrate(b model.AudioBitrate) {
	if !b.Valid() {
		b = model.DefaultBitrate
	}
	s.app.Preferences().SetInt(KeyAudioBitrate, int(b))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoOpenOnComplete returns whether to open the folder after a download
func (s *Settings) GetAutoOpenOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoOpenComplete, DefaultAutoOpenComplete)
}

// SetAutoOpenOnComplete sets whether to open the folder after a download
func (s *Settings) SetAutoOpenOnComplete(open bool) {
	s.app.Preferences().SetBool(KeyAutoOpenComplete, open)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"en": "English",
		"pt": "Português",
		"ru": "Русский",
	}
}
