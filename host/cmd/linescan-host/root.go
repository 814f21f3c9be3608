package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"linescan/host/config"
	"linescan/host/log"
)

const (
	ConfigOptionName   = "config"
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var configPath, logLevel string
	cfg := config.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:   "linescan-host",
		Short: "Capture and serve line-sensor frames",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil {
				if err := cfg.Load(path); err != nil {
					return err
				}
			} else if configPath != "" {
				// An explicitly named config file must exist.
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(NewReadCommand(cfg))
	cmd.AddCommand(NewServeCommand(cfg))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "",
		"Path to the config file. Defaults to ~/.linescan/config.yaml when present.")
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "",
		fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
