// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are plain values created with [Make] and configured with
// functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// The zero [Logger] discards everything, so packages that accept a Logger as
// an option stay silent unless the caller supplies one.
//
// Package-level functions ([Info], [Warn], ...) write to a default logger that
// the CLI reconfigures with [Config] as flags are parsed.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded.
//
// # Output
//
// Two formats are supported, [FormatJSON] and [FormatText]. With
// [WithPretty] enabled either format is colorized for a terminal; pretty
// output is the default only when stderr is a terminal.
package log
