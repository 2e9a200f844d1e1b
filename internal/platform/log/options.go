package log

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Options configures the zap logger.
type Options struct {
	Name          string
	Level         string
	Format        string
	EnableColor   bool
	DisableCaller bool
	OutputPaths   []string
}

func NewOptions() *Options {
	return &Options{
		Level:       "info",
		Format:      "console",
		EnableColor: false,
		OutputPaths: []string{"stdout"},
	}
}

func (o *Options) Validate() []error {
	var errs []error
	switch o.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be 'console' or 'json', got %q", o.Format))
	}
	switch o.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", o.Level))
	}
	return errs
}

// AddFlags binds the logger options to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Name, "log.name", o.Name, "An optional name for the logger.")
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log level ('debug', 'info', 'warn', 'error').")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log output format ('console' or 'json').")
	fs.BoolVar(&o.EnableColor, "log.enable-color", o.EnableColor, "Colorize console output.")
	fs.BoolVar(&o.DisableCaller, "log.disable-caller", o.DisableCaller, "Omit the caller field.")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Log output paths (e.g. 'stdout', '/var/log/evac.log').")
}
