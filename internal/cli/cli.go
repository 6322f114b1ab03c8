// Package cli formats command output: colored labels on interactive
// terminals, plain text on pipes and CI.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode selects how output is rendered.
type OutputMode int

const (
	// ModeTTY enables colored output for interactive terminals.
	ModeTTY OutputMode = iota
	// ModePlain emits uncolored text, for pipes and CI logs.
	ModePlain
)

// Config holds the detected output settings.
type Config struct {
	Mode OutputMode
}

// DetectConfig picks the mode from the environment: a TTY on stdout gets
// colors unless NO_COLOR (https://no-color.org/) or TERM=dumb says
// otherwise.
func DetectConfig() *Config {
	mode := ModePlain
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		mode = ModeTTY
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		mode = ModePlain
	}
	return &Config{Mode: mode}
}

func (c *Config) IsTTY() bool { return c.Mode == ModeTTY }

var defaultCfg *Config

// Default returns the global configuration, detecting it on first use.
func Default() *Config {
	if defaultCfg == nil {
		defaultCfg = DetectConfig()
	}
	return defaultCfg
}

// SetDefault overrides the global configuration. Used by the --plain flag
// and by tests.
func SetDefault(cfg *Config) {
	defaultCfg = cfg
}

// EnableColors reports whether styled output is active.
func EnableColors() bool {
	return Default().IsTTY()
}
