package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/model"
)

// shutdownGrace bounds how long an interrupted run waits for workers to clean up.
const shutdownGrace = 5 * time.Second

type downloadOptions struct {
	format       string
	quality      string
	bitrate      int
	start        string
	end          string
	outputDir    string
	extractAudio bool
	transcribe   bool
	srtOnly      bool
}

func (o downloadOptions) request(url, defaultDir string) (model.Request, error) {
	format, err := model.ParseMediaFormat(o.format)
	if err != nil {
		return model.Request{}, err
	}
	quality, err := model.ParseVideoQuality(o.quality)
	if err != nil {
		return model.Request{}, err
	}
	var bitrate model.AudioBitrate
	if o.bitrate != 0 {
		if bitrate, err = model.ParseAudioBitrate(fmt.Sprint(o.bitrate)); err != nil {
			return model.Request{}, err
		}
	}
	dir := strings.TrimSpace(o.outputDir)
	if dir == "" {
		dir = defaultDir
	}
	req := model.Request{
		URL:          url,
		Format:       format,
		Quality:      quality,
		Bitrate:      bitrate,
		Trim:         model.TimeRange{Start: o.start, End: o.end},
		OutputDir:    dir,
		ExtractAudio: o.extractAudio,
		Transcribe:   o.transcribe || o.srtOnly,
		DiscardMedia: o.srtOnly,
	}
	req.Normalize()
	return req, req.Validate()
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download <url> [url...]",
		Short: "Download one or more videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if opts.quality == "" {
				opts.quality = cfg.Download.VideoQuality
			}
			if opts.bitrate == 0 {
				opts.bitrate = cfg.Download.AudioBitrate
			}

			reqs := make([]model.Request, 0, len(args))
			for _, url := range args {
				req, err := opts.request(url, cfg.Paths.DownloadDir)
				if err != nil {
					return fmt.Errorf("%s: %w", url, err)
				}
				reqs = append(reqs, req)
			}
			files, err := runDownloads(cmd, ctx, reqs)
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", string(model.FormatMP4), "Output format (mp4 or mp3)")
	flags.StringVarP(&opts.quality, "quality", "q", "", "Video quality (best, 1080p, 720p)")
	flags.IntVarP(&opts.bitrate, "bitrate", "b", 0, "MP3 bitrate in kbps (128, 192, 320)")
	flags.StringVar(&opts.start, "start", "", "Trim start (HH:MM:SS)")
	flags.StringVar(&opts.end, "end", "", "Trim end (HH:MM:SS)")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Output directory")
	flags.BoolVar(&opts.extractAudio, "extract-audio", false, "Also write an MP3 next to the MP4")
	flags.BoolVar(&opts.transcribe, "transcribe", false, "Also write an SRT transcript")
	flags.BoolVar(&opts.srtOnly, "srt-only", false, "Keep only the SRT transcript")
	return cmd
}

// runDownloads queues reqs on the download service, waits for all of them
// and returns the produced paths.
func runDownloads(cmd *cobra.Command, ctx *commandContext, reqs []model.Request) ([]string, error) {
	stack, err := ctx.ensureStack(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger := ctx.loggerValue()
	svc := stack.NewDownloadService()
	reporter := newTaskReporter(cmd.ErrOrStderr(), logger, len(reqs) == 1)
	svc.SetUpdateCallback(reporter.update)

	var ids []string
	var addErr error
	for _, req := range reqs {
		task, err := svc.AddTask(req)
		if err != nil {
			logger.Warn("skipping", "url", req.URL, "err", err)
			addErr = err
			continue
		}
		ids = append(ids, task.ID)
	}
	if len(ids) == 0 {
		if addErr != nil {
			return nil, addErr
		}
		return nil, errors.New("nothing to download")
	}

	if err := svc.Wait(cmd.Context()); err != nil {
		svc.StopAll()
		waitCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = svc.Wait(waitCtx)
		return nil, err
	}

	var files []string
	var lastErr string
	var failed int
	for _, id := range ids {
		task, ok := svc.GetTask(id)
		if !ok {
			continue
		}
		if task.Status != model.TaskStatusCompleted {
			failed++
			lastErr = task.LastError
			continue
		}
		files = append(files, task.OutputPaths...)
	}
	switch {
	case failed == 1 && len(ids) == 1 && lastErr != "":
		return files, errors.New(lastErr)
	case failed > 0:
		return files, fmt.Errorf("%d of %d downloads failed", failed, len(ids))
	}
	return files, nil
}

// downloadOne runs a single request in the foreground.
func downloadOne(cmd *cobra.Command, ctx *commandContext, req model.Request) ([]string, error) {
	return runDownloads(cmd, ctx, []model.Request{req})
}
