package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeTranscription()
	c.normalizeServer()
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) normalizePaths() error {
	defaults := Default().Paths
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.download_dir", &c.Paths.DownloadDir, defaults.DownloadDir},
		{"paths.state_dir", &c.Paths.StateDir, defaults.StateDir},
		{"paths.server_work_dir", &c.Paths.ServerWorkDir, defaults.ServerWorkDir},
		{"transcription.model_dir", &c.Transcription.ModelDir, Default().Transcription.ModelDir},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.value) == "" {
			*f.value = f.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*f.value))
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = expanded
	}

	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.WhisperCLI = strings.TrimSpace(c.Tools.WhisperCLI)
	c.Tools.CookiesFile = strings.TrimSpace(c.Tools.CookiesFile)
	return nil
}

func (c *Config) normalizeDownload() {
	c.Download.VideoQuality = strings.ToLower(strings.TrimSpace(c.Download.VideoQuality))
	c.Download.MetadataSource = strings.ToLower(strings.TrimSpace(c.Download.MetadataSource))
	if c.Download.VideoQuality == "" {
		c.Download.VideoQuality = Default().Download.VideoQuality
	}
	if c.Download.MetadataSource == "" {
		c.Download.MetadataSource = Default().Download.MetadataSource
	}
	if c.Download.AudioBitrate == 0 {
		c.Download.AudioBitrate = Default().Download.AudioBitrate
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Engine = strings.ToLower(strings.TrimSpace(c.Transcription.Engine))
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	c.Transcription.OpenAIBaseURL = strings.TrimSpace(c.Transcription.OpenAIBaseURL)
	c.Transcription.ModelBaseURL = strings.TrimSpace(c.Transcription.ModelBaseURL)
	if c.Transcription.ModelBaseURL == "" {
		c.Transcription.ModelBaseURL = Default().Transcription.ModelBaseURL
	}
	if c.Transcription.Engine == "" {
		c.Transcription.Engine = Default().Transcription.Engine
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = Default().Transcription.Model
	}
}

func (c *Config) normalizeServer() {
	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}
	origins := c.Server.AllowedOrigins[:0]
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.AllowedOrigins = origins
}
