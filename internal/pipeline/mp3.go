package pipeline

import (
	"context"
	"fmt"

	"github.com/ytget/tubeloader/internal/media"
	"github.com/ytget/tubeloader/internal/model"
)

// mp3 fetches the m4a audio track, optionally stream-copies the trim range
// and encodes the result to final.
func (r *run) mp3(ctx context.Context, final string) error {
	src := r.temps.New("m4a")
	if err := r.fetch(ctx, model.SelectorAudioForMP3, src, model.StageDownloadingAudio, "Downloading audio (M4A)..."); err != nil {
		return err
	}

	if r.req.Trim.IsSet() {
		cut := r.temps.New("m4a")
		args := media.AudioTrimArgs(src, cut, r.req.Trim.Start, r.req.Trim.End)
		if err := r.ffmpeg(ctx, args, model.StageCutting, "Cutting M4A audio..."); err != nil {
			return fmt.Errorf("cut: %w", err)
		}
		r.release(src)
		src = cut
	}

	msg := fmt.Sprintf("Converting to MP3 %d kbps...", r.req.Bitrate)
	if err := r.ffmpeg(ctx, media.MP3Args(src, final, r.req.Bitrate), model.StageConverting, msg); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	r.release(src)
	return nil
}
