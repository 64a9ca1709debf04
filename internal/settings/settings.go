// Package settings loads nitroctl's own configuration file.
//
// This is client configuration only (where the backend lives, timeouts,
// output preferences). Instance and template configs belong to the backend
// and are reached through the bridge.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultSocket is where the backend daemon listens by default.
	DefaultSocket = "/run/nitrolaunch/daemon.sock"

	// DefaultTimeout bounds a single backend command.
	DefaultTimeout = 10 * time.Second

	configFileName = "config.toml"
)

// Settings is the nitroctl client configuration.
type Settings struct {
	// Socket is the backend daemon's unix socket path.
	Socket string `toml:"socket"`
	// URL is a websocket URL for a remote backend. When set it takes
	// precedence over the socket.
	URL string `toml:"url"`
	// Timeout bounds each backend command.
	Timeout duration `toml:"timeout"`
	// Output selects the default listing format: "table" or "json".
	Output string `toml:"output"`
}

// duration wraps time.Duration for TOML strings like "10s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	return &Settings{
		Socket:  DefaultSocket,
		Timeout: duration{DefaultTimeout},
		Output:  "table",
	}
}

// Path returns the default settings file location, under the user's
// config directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find config directory: %w", err)
	}
	return filepath.Join(dir, "nitroctl", configFileName), nil
}

// Load reads settings from path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	s := Default()

	meta, err := toml.DecodeFile(path, s)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown settings key %q in %s", undecoded[0].String(), path)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.Socket == "" && s.URL == "" {
		return fmt.Errorf("either socket or url is required")
	}
	if s.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	switch s.Output {
	case "", "table", "json":
	default:
		return fmt.Errorf("invalid output format %q (must be table or json)", s.Output)
	}
	return nil
}

// CommandTimeout returns the per-command timeout.
func (s *Settings) CommandTimeout() time.Duration {
	if s.Timeout.Duration <= 0 {
		return DefaultTimeout
	}
	return s.Timeout.Duration
}
