package pipeline

import (
	"context"
	"fmt"

	"github.com/ytget/tubeloader/internal/media"
	"github.com/ytget/tubeloader/internal/model"
)

// mp4 fetches video and audio separately, merges them and either trims the
// merge into final or moves it there.
func (r *run) mp4(ctx context.Context, final string) error {
	video := r.temps.New("mp4")
	audio := r.temps.New("m4a")

	if err := r.fetch(ctx, r.req.Quality.VideoSelector(), video, model.StageDownloadingVideo, "Downloading video..."); err != nil {
		return err
	}
	if err := r.fetch(ctx, model.SelectorBestAudio, audio, model.StageDownloadingAudio, "Downloading audio..."); err != nil {
		return err
	}

	merged := r.temps.New("mp4")
	if err := r.ffmpeg(ctx, media.MergeArgs(video, audio, merged), model.StageMerging, "Merging video and audio..."); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	r.release(video, audio)

	if r.req.Trim.IsSet() {
		args := media.VideoTrimArgs(merged, final, r.req.Trim.Start, r.req.Trim.End)
		if err := r.ffmpeg(ctx, args, model.StageCutting, "Cutting video..."); err != nil {
			return fmt.Errorf("cut: %w", err)
		}
		r.release(merged)
		return nil
	}

	return r.temps.Promote(merged, final)
}

func (r *run) release(paths ...string) {
	for _, p := range paths {
		if err := r.temps.Release(p); err != nil {
			r.log.Warn("failed to remove temp file", "path", p, "err", err)
		}
	}
}
