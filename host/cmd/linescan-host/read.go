package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"linescan/host/config"
	"linescan/host/log"
	"linescan/host/reader"
	"linescan/host/serial"
	"linescan/host/store"
)

// NewReadCommand returns the command that captures frames from the
// serial link into the frame store until interrupted.
func NewReadCommand(cfg *config.Config) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read frames from the firmware and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if device != "" {
				cfg.Device = device
			}

			portCfg := serial.DefaultConfig(cfg.Device)
			portCfg.Baud = cfg.Baud
			port, err := serial.Open(portCfg)
			if err != nil {
				return err
			}
			defer port.Close()

			frames, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer frames.Close()

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("reading frames from %s at %d baud", cfg.Device, cfg.Baud)
			r := reader.New(port, cfg.Pixels)
			err = r.Monitor(ctx, func(f reader.Frame) {
				log.Debug("frame from sensor %d: %d samples", f.SensorID, len(f.Samples))
				if err := frames.PutFrame(f); err != nil {
					log.Error("failed to store frame from sensor %d: %v", f.SensorID, err)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "Serial device to read from.")
	return cmd
}
