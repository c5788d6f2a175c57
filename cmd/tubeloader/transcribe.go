package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/bootstrap"
	"github.com/ytget/tubeloader/internal/transcribe"
)

// reportedError has already been printed; main only sets the exit code.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var engine string
	var modelName string
	var language string

	cmd := &cobra.Command{
		Use:   "transcribe <file> <output_dir>",
		Short: "Transcribe an audio or video file to SRT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fail := func(err error) error {
				fmt.Fprintf(out, "ERROR: %v\n", err)
				return &reportedError{err: err}
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fail(err)
			}
			tcfg := *cfg
			if engine != "" {
				if !transcribe.ValidEngine(engine) {
					return fail(transcribe.UnknownEngineError(engine))
				}
				tcfg.Transcription.Engine = engine
			}
			if modelName != "" {
				tcfg.Transcription.Model = modelName
			}
			if language != "" {
				tcfg.Transcription.Language = language
			}

			stack, err := ctx.ensureStack(cmd.Context())
			if err != nil {
				return fail(err)
			}
			cwd, _ := os.Getwd()
			eng, err := bootstrap.NewTranscriber(&tcfg, cwd, stack.FFmpeg, ctx.loggerValue())
			if err != nil {
				return fail(err)
			}
			if whisper, ok := eng.(*transcribe.WhisperCPP); ok {
				whisper.Models.Progress = modelDownloadBar(cmd.ErrOrStderr())
			}

			svc := transcribe.NewService(eng, ctx.loggerValue())
			srtPath, err := svc.TranscribeFile(cmd.Context(), args[0], args[1])
			if err != nil {
				if errors.Is(err, transcribe.ErrFileNotFound) {
					return fail(fmt.Errorf("file not found: %s", args[0]))
				}
				return fail(err)
			}
			fmt.Fprintf(out, "SUCCESS: %s\n", srtPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&engine, "engine", "", "Transcription engine (whispercpp or openai)")
	cmd.Flags().StringVar(&modelName, "model", "", "Whisper model name (default tiny)")
	cmd.Flags().StringVar(&language, "language", "", "Spoken language code, empty to auto-detect")
	return cmd
}
