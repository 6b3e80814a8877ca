// Package profile provides optional runtime profiling for msc.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//	msc --pprof-mode=cpu eval
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
// Profile files are written to the configured directory, by default
// <UserCacheDir>/msc/pprof, and can be inspected with "go tool pprof".
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler describes one profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory
	Quiet bool   // suppress the profiler's own log output
}

// Stopper ends a profiling session started by [Profiler.Start].
type Stopper interface{ Stop() }

// Start begins profiling and returns a [Stopper] that flushes the profile.
// An empty or unsupported mode, or a build without the pprof tag, yields a
// no-op. Stop is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
