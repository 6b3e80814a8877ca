package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/EmmChriss/msc/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// errors reported while kong is still parsing use the requested format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevelEnum}" help:"Set log level."`
	Format     logFormat `default:"${logFormat}" enum:"text,json"      help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                            help:"Set timestamp format (Go layout, name like RFC3339, or none)."`
	Caller     bool      `default:"false"                              help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"${logPretty}"                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":     log.DefaultLevel.String(),
		"logLevelEnum": strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":    log.DefaultFormat.String(),
		"logPretty":    strconv.FormatBool(log.DefaultPretty()),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies the fully parsed configuration. A verbose run raises the
// level to debug unless a more detailed level was requested.
func (f *logConfig) start(ctx context.Context, verbose bool) func() {
	level := log.ParseLevel(string(f.Level))
	if verbose && level > log.LevelDebug {
		level = log.LevelDebug
	}

	log.Config(
		log.WithLevel(level),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", level.String()),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {}
}

// scan applies logger flags found in args before kong parses them, so that
// the flags take effect regardless of their position. Boolean flags never
// reach a TextUnmarshaler, which is why they are handled here too.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		negated := strings.HasPrefix(name, "--no-log-")
		if !negated && !strings.HasPrefix(name, "--log-") {
			continue
		}

		key := strings.TrimPrefix(strings.TrimPrefix(name, "--no-log-"), "--log-")

		switch key {
		case "level", "format":
			if negated {
				continue
			}

			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			if key == "level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "pretty", "caller":
			enable := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = v
			}

			if negated {
				enable = !enable
			}

			if key == "pretty" {
				f.Pretty = enable
				log.Config(log.WithPretty(enable))
			} else {
				f.Caller = enable
				log.Config(log.WithCaller(enable))
			}
		}
	}
}
