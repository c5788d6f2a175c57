package main

import (
	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stack, err := ctx.ensureStack(cmd.Context())
			if err != nil {
				return err
			}
			opts := server.Options{
				WorkDir:        cfg.Paths.ServerWorkDir,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Logger:         ctx.loggerValue().With("component", "server"),
			}
			if stack.History != nil {
				opts.Recorder = stack.History
			}
			srv, err := server.New(stack.Extractor, stack.Pipeline, opts)
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = cfg.Server.Listen
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	return cmd
}
