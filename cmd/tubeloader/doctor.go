package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/bootstrap"
	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/platform"
	"github.com/ytget/tubeloader/internal/transcribe"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cwd, _ := os.Getwd()
			statuses := platform.CheckTools(cwd, bootstrap.Requirements(cfg))

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "found"
				switch {
				case !s.Found && s.Optional:
					state = "missing (optional)"
				case !s.Found:
					state = "MISSING"
				}
				path := s.Path
				if path == "" {
					path = "-"
				}
				rows = append(rows, []string{s.Name, state, path, s.Purpose})
			}
			if cfg.Transcription.Engine == transcribe.EngineWhisperCPP {
				rows = append(rows, modelRow(cfg))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tool", "Status", "Path", "Used for"}, rows, nil))

			if missing := platform.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
}

// modelRow reports the whisper.cpp model. A missing model is not fatal.
func modelRow(cfg *config.Config) []string {
	store := bootstrap.ModelStore(cfg, nil)
	name := "Whisper model " + cfg.Transcription.Model
	path := store.Path(cfg.Transcription.Model)
	switch {
	case store.Installed(cfg.Transcription.Model):
		return []string{name, "found", path, "local transcription"}
	case store.Fetcher != nil:
		return []string{name, "missing (downloaded on first use)", path, store.URL(cfg.Transcription.Model)}
	default:
		return []string{name, "missing (optional)", path, "download from " + store.URL(cfg.Transcription.Model)}
	}
}
