package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string // "console" or "json"; empty picks by terminal
	Output io.Writer
}

// New constructs the root application logger.
func New(opts Options) (hclog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		if isTerminal(out) {
			format = "console"
		} else {
			format = "json"
		}
	}

	hopts := &hclog.LoggerOptions{
		Name:   "gamestudy",
		Level:  parseLevel(opts.Level),
		Output: out,
	}
	switch format {
	case "json":
		hopts.JSONFormat = true
	case "console":
		if isTerminal(out) {
			hopts.Color = hclog.AutoColor
		}
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return hclog.New(hopts), nil
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

func parseLevel(level string) hclog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return hclog.Trace
	case "debug":
		return hclog.Debug
	case "warn", "warning":
		return hclog.Warn
	case "error":
		return hclog.Error
	default:
		return hclog.Info
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
