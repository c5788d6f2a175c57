package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/ytget/tubeloader/internal/extract"
	"github.com/ytget/tubeloader/internal/logging"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/transcribe"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.MaxParallel < 0 {
		return errors.New("download.max_parallel must be 0 (unbounded) or positive")
	}
	if c.Download.Retries < 0 {
		return errors.New("download.retries must not be negative")
	}
	if _, err := model.ParseVideoQuality(c.Download.VideoQuality); err != nil {
		return fmt.Errorf("download.video_quality: %w", err)
	}
	if _, err := model.ParseAudioBitrate(strconv.Itoa(c.Download.AudioBitrate)); err != nil {
		return fmt.Errorf("download.audio_bitrate: %w", err)
	}
	switch c.Download.MetadataSource {
	case extract.SourceYTDLP, extract.SourceNative, extract.SourceAuto:
	default:
		return fmt.Errorf("download.metadata_source must be %s, %s or %s", extract.SourceYTDLP, extract.SourceNative, extract.SourceAuto)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if !transcribe.ValidEngine(c.Transcription.Engine) {
		return fmt.Errorf("transcription.engine: %w", transcribe.UnknownEngineError(c.Transcription.Engine))
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return fmt.Errorf("server.listen: %w", err)
	}
	return nil
}
