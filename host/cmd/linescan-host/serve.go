package main

import (
	"github.com/spf13/cobra"

	"linescan/host/api"
	"linescan/host/config"
	"linescan/host/store"
)

// NewServeCommand returns the command that serves stored frames over
// HTTP.
func NewServeCommand(cfg *config.Config) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve captured frames over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				cfg.Listen = listen
			}

			frames, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer frames.Close()

			return api.NewApiServer(frames).Run(cfg.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to serve the frame API on.")
	return cmd
}
