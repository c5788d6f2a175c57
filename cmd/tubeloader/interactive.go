package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/timecode"
)

// DefaultInteractiveDir is offered as the output directory.
const DefaultInteractiveDir = "./downloads"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

var errNonInteractive = errors.New("interactive prompts are disabled by NON_INTERACTIVE; use `tubeloader download`")

// answers is one round of the prompt loop.
type answers struct {
	URL       string
	OutputDir string
	Format    model.MediaFormat
	Quality   model.VideoQuality
	Bitrate   model.AudioBitrate
	Start     string
	End       string
}

func (a answers) request() model.Request {
	req := model.Request{
		URL:       a.URL,
		Format:    a.Format,
		Quality:   a.Quality,
		Bitrate:   a.Bitrate,
		Trim:      model.TimeRange{Start: a.Start, End: a.End},
		OutputDir: a.OutputDir,
	}
	req.Normalize()
	return req
}

// prompter asks the questions of one round.
type prompter interface {
	URL() (string, error)
	Options(defaults answers) (answers, error)
	Again() (bool, error)
}

type huhPrompter struct{}

func (huhPrompter) URL() (string, error) {
	var url string
	err := huh.NewInput().
		Title("YouTube URL").
		Placeholder(model.URLPlaceholder).
		Value(&url).
		Run()
	return model.CleanURL(url), err
}

func (huhPrompter) Options(a answers) (answers, error) {
	if err := huh.NewInput().
		Title("Output directory").
		Placeholder(a.OutputDir).
		Value(&a.OutputDir).
		Run(); err != nil {
		return a, err
	}

	if err := huh.NewSelect[model.MediaFormat]().
		Title("Format").
		Options(
			huh.NewOption("MP4 video", model.FormatMP4),
			huh.NewOption("MP3 audio", model.FormatMP3),
		).
		Value(&a.Format).
		Run(); err != nil {
		return a, err
	}

	if a.Format == model.FormatMP4 {
		opts := make([]huh.Option[model.VideoQuality], 0, 3)
		for _, q := range model.VideoQualities() {
			opts = append(opts, huh.NewOption(q.Label(), q))
		}
		if err := huh.NewSelect[model.VideoQuality]().Title("Quality").Options(opts...).Value(&a.Quality).Run(); err != nil {
			return a, err
		}
	} else {
		opts := make([]huh.Option[model.AudioBitrate], 0, 3)
		for _, b := range model.AudioBitrates() {
			opts = append(opts, huh.NewOption(b.Label(), b))
		}
		if err := huh.NewSelect[model.AudioBitrate]().Title("Bitrate").Options(opts...).Value(&a.Bitrate).Run(); err != nil {
			return a, err
		}
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Start (HH:MM:SS, empty for full length)").Validate(optionalTimestamp).Value(&a.Start),
		huh.NewInput().Title("End (HH:MM:SS)").Validate(optionalTimestamp).Value(&a.End),
	))
	if err := form.Run(); err != nil {
		return a, err
	}
	return a, nil
}

func (huhPrompter) Again() (bool, error) {
	again := true
	err := huh.NewConfirm().
		Title("Download another?").
		Affirmative("Yes").
		Negative("No").
		Value(&again).
		Run()
	return again, err
}

func optionalTimestamp(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return timecode.ValidateTimestamp(strings.TrimSpace(s))
}

func newInteractiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Prompt for a URL and options, then download",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.NonInteractive() {
				return errNonInteractive
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			defaults := answers{
				OutputDir: DefaultInteractiveDir,
				Format:    model.FormatMP4,
				Quality:   model.VideoQuality(cfg.Download.VideoQuality),
				Bitrate:   model.AudioBitrate(cfg.Download.AudioBitrate),
			}
			return interactiveLoop(cmd.OutOrStdout(), huhPrompter{}, defaults, func(req model.Request) ([]string, error) {
				return downloadOne(cmd, ctx, req)
			})
		},
	}
}

// interactiveLoop runs rounds until the user declines or submits an empty URL.
func interactiveLoop(out io.Writer, p prompter, defaults answers, run func(model.Request) ([]string, error)) error {
	for {
		url, err := p.URL()
		if err != nil {
			return err
		}
		if url == "" || url == model.URLPlaceholder {
			fmt.Fprintln(out, "Empty link, exiting.")
			return nil
		}
		if err := model.ValidateURL(url); err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}

		a, err := p.Options(defaults)
		if err != nil {
			return err
		}
		a.URL = url
		if strings.TrimSpace(a.OutputDir) == "" {
			a.OutputDir = DefaultInteractiveDir
		}
		if err := os.MkdirAll(a.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		req := a.request()
		if err := req.Validate(); err != nil {
			fmt.Fprintln(out, "Error:", err)
		} else if files, err := run(req); err != nil {
			fmt.Fprintln(out, "Error:", err)
		} else {
			fmt.Fprintln(out, renderSummary(req, files))
			fmt.Fprintln(out, okStyle.Render("Finished."))
		}

		again, err := p.Again()
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		defaults = a
		defaults.URL = ""
	}
}

func renderSummary(req model.Request, files []string) string {
	lines := []string{titleStyle.Render("Download complete")}
	row := func(label, value string) {
		lines = append(lines, labelStyle.Render(label+": ")+value)
	}
	row("Format", req.Format.Label())
	if req.Format == model.FormatMP4 {
		row("Quality", req.Quality.Label())
	} else {
		row("Bitrate", req.Bitrate.Label())
	}
	if req.Trim.IsSet() {
		row("Trim", req.Trim.String())
	}
	for _, f := range files {
		row("File", f)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
