package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	DefaultDevice   = "/dev/ttyACM0"
	DefaultBaud     = 115200
	DefaultPixels   = 1024
	DefaultListen   = "127.0.0.1:8003"
	DefaultDBPath   = "frames.db"
	DefaultLogLevel = "info"
)

// Config holds the host-side settings for talking to the acquisition
// firmware and serving captured frames.
type Config struct {
	// Device is the serial device the firmware enumerates on.
	Device string `json:"device"`
	// Baud is the serial link speed.
	Baud int `json:"baud"`
	// Pixels is the expected sample count per frame. Frames with any
	// other count are discarded as truncated.
	Pixels int `json:"pixels"`
	// Listen is the address the frame API binds to.
	Listen string `json:"listen"`
	// DBPath is the bbolt database file for captured frames.
	DBPath string `json:"dbPath"`
	// LogLevel is one of error, warning, info, debug.
	LogLevel string `json:"logLevel"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Device:   DefaultDevice,
		Baud:     DefaultBaud,
		Pixels:   DefaultPixels,
		Listen:   DefaultListen,
		DBPath:   DefaultDBPath,
		LogLevel: DefaultLogLevel,
	}
}

// DefaultConfigPath returns the per-user config location,
// ~/.linescan/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".linescan", "config.yaml"), nil
}

// Load reads a yaml config file into c. Missing fields keep whatever c
// already holds, so call it on a NewDefaultConfig.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return c.Validate()
}

// Persist writes c to path as yaml, creating parent directories.
func (c *Config) Persist(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device must not be empty")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.Pixels <= 0 {
		return fmt.Errorf("pixels must be positive, got %d", c.Pixels)
	}
	return nil
}
