// linescan-host captures frames from the acquisition firmware over a
// serial link, stores them, and serves the latest readout per sensor.
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
