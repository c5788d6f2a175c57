package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/platform"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <url>",
		Short: "Show video metadata and the file names a download would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := model.CleanURL(args[0])
			if err := model.ValidateURL(url); err != nil {
				return err
			}
			stack, err := ctx.ensureStack(cmd.Context())
			if err != nil {
				return err
			}
			info, err := stack.Extractor.Info(cmd.Context(), url)
			if err != nil {
				return err
			}

			base := platform.SanitizeTitle(info.DisplayTitle())
			uploader := info.Uploader
			if uploader == "" {
				uploader = "-"
			}
			rows := [][]string{
				{"Title", info.DisplayTitle()},
				{"Uploader", uploader},
				{"Duration", info.DurationString()},
				{"MP4 file", base + "." + model.FormatMP4.Extension()},
				{"MP3 file", base + "." + model.FormatMP3.Extension()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
