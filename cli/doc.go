// Package cli contains the command line interface for msc.
//
// # Usage
//
//	msc new ~/music
//	msc -l ~/music/library.msc add https://example.com/album -s /rock
//	msc ls abbey
//	msc ls --where 'path == "/rock" && scripts > 0' -f json
//	msc eval /rock -f yaml
//	msc cache set /rock https://example.com/album --title Abbey_Road
//
// # Configuration
//
// Flag defaults may be overridden by files in the configuration directory
// (for example ~/.config/msc on Linux), checked in this order:
//
//	config.json   read by kong.JSON
//	config.yaml   flat YAML mapping
//	config.toml   TOML; tables are flattened, so [log] level = "debug"
//	              sets --log-level
//
// Keys are long flag names with hyphens or underscores. Command-line flags
// override the files.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output (default on when stderr is a terminal)
//
// --verbose (-v) is shorthand for --log-level=debug.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: <UserCacheDir>/msc/pprof)
package cli
