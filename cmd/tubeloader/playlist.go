package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
)

// playlistTimeout bounds playlist expansion.
const playlistTimeout = 2 * time.Minute

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var download bool
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "List playlist entries, or download them with --download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			url := model.CleanURL(args[0])
			if platform.ExtractPlaylistID(url) == "" {
				return fmt.Errorf("not a playlist URL: %s", url)
			}

			parseCtx, cancel := context.WithTimeout(cmd.Context(), playlistTimeout)
			defer cancel()
			parser := platform.NewPlaylistParser()
			parser.SetTimeout(playlistTimeout)
			playlist, err := parser.ParsePlaylist(parseCtx, url)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !download {
				rows := make([][]string, 0, playlist.Len())
				for _, v := range playlist.Videos {
					duration := v.Duration
					if duration == "" {
						duration = "-"
					}
					rows = append(rows, []string{strconv.Itoa(v.Index), v.Title, duration, v.URL})
				}
				fmt.Fprintln(out, playlist.Title)
				fmt.Fprintln(out, renderTable([]string{"#", "Title", "Duration", "URL"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft}))
				return nil
			}

			if opts.quality == "" {
				opts.quality = cfg.Download.VideoQuality
			}
			if opts.bitrate == 0 {
				opts.bitrate = cfg.Download.AudioBitrate
			}
			tmpl, err := opts.request(playlist.URL, cfg.Paths.DownloadDir)
			if err != nil {
				return err
			}
			ctx.loggerValue().Info("queueing playlist", "title", playlist.Title, "videos", playlist.Len(), "parallel", cfg.Download.MaxParallel)
			files, err := runDownloads(cmd, ctx, playlist.Requests(tmpl))
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&download, "download", false, "Download every entry")
	flags.StringVarP(&opts.format, "format", "f", string(model.FormatMP4), "Output format (mp4 or mp3)")
	flags.StringVarP(&opts.quality, "quality", "q", "", "Video quality (best, 1080p, 720p)")
	flags.IntVarP(&opts.bitrate, "bitrate", "b", 0, "MP3 bitrate in kbps (128, 192, 320)")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Output directory")
	return cmd
}
