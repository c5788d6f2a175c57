package pipeline

import (
	"context"
	"fmt"

	"github.com/ytget/tubeloader/internal/media"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
	"github.com/ytget/tubeloader/internal/transcribe"
)

// extras runs audio extraction and transcription and returns the final
// file list, primary first.
func (r *run) extras(ctx context.Context, final string) ([]string, error) {
	files := []string{final}
	audio := ""
	if r.req.Format == model.FormatMP3 {
		audio = final
	}

	if r.req.ExtractAudio && r.req.Format == model.FormatMP4 {
		mp3, err := r.reserve(ctx, platform.BaseName(final), "mp3")
		if err != nil {
			return nil, err
		}
		if err := r.ffmpeg(ctx, media.ExtractAudioArgs(final, mp3), model.StageExtractingAudio, "Extracting audio..."); err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		files = append(files, mp3)
		audio = mp3
	}

	if !r.req.Transcribe {
		return files, nil
	}

	source := final
	if audio != "" {
		source = audio
	}
	srtPath, err := r.reserve(ctx, platform.BaseName(final), "srt")
	if err != nil {
		return nil, err
	}
	srt, err := r.transcribe(ctx, source, srtPath)
	if err != nil {
		_ = r.p.Fs.Remove(srtPath)
		if r.req.DiscardMedia || ctx.Err() != nil {
			return nil, err
		}
		r.log.Warn("transcription failed", "err", err)
		r.stage(model.StageTranscribing, "Transcription failed: "+err.Error())
		return files, nil
	}

	if r.req.DiscardMedia {
		for _, f := range files {
			if err := r.p.Fs.Remove(f); err != nil {
				r.log.Warn("failed to remove media", "path", f, "err", err)
			}
		}
		return []string{srt}, nil
	}
	return append(files, srt), nil
}

func (r *run) transcribe(ctx context.Context, source, srtPath string) (string, error) {
	if r.p.Transcriber == nil {
		return "", fmt.Errorf("transcription is not configured")
	}
	r.stage(model.StageTranscribing, "Transcribing...")
	segments, err := r.p.Transcriber.Transcribe(ctx, source)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	if err := transcribe.WriteSRT(srtPath, segments); err != nil {
		return "", err
	}
	return srtPath, nil
}
