package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
)

// LogOptions selects the level and format of CLI log output.
type LogOptions struct {
	Verbose bool
	Format  string
}

// Bind registers the logging flags on fs.
func (o *LogOptions) Bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Enable debug logging")
	fs.StringVar(&o.Format, "log-format", "text", "Log format (text or json)")
}

// NewLogger builds a logger writing to w.
func (o LogOptions) NewLogger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch o.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", o.Format)
	}
}
