// Package logging builds the hclog loggers used across Hexit.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "hexit"

// Options configures New.
type Options struct {
	// Level is an hclog level name; unknown names fall back to info.
	Level string
	// JSON switches to JSON lines output.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates the root logger.
func New(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     output,
		JSONFormat: opts.JSON,
	})
}

// Discard returns a logger that drops everything, for tests and quiet runs.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Output: io.Discard,
		Level:  hclog.Off,
	})
}
