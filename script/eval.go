package script

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
	"github.com/EmmChriss/msc/value"
)

// Observer receives the recoverable conditions an evaluation resolved to a
// default: [pkg.ErrUnresolvedVariable] and, in lenient mode,
// [pkg.ErrUnknownFunction].
type Observer func(ctx context.Context, err error)

// Stats counts the recoverable conditions seen by an [Evaluator].
type Stats struct {
	Unresolved int64 // variable reads that resolved to ""
	Unknown    int64 // calls to unregistered functions
}

// Evaluator runs scripts against a caller-owned value tree.
//
// An Evaluator may be shared between goroutines, but each evaluation mutates
// its root exclusively: two scripts must not be evaluated against the same
// root concurrently.
type Evaluator struct {
	registry *Registry
	strict   bool
	logger   log.Logger
	observer Observer

	unresolved atomic.Int64
	unknown    atomic.Int64
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithRegistry sets the builtin registry. The default is [DefaultRegistry].
func WithRegistry(r *Registry) Option {
	return func(ev *Evaluator) {
		ev.registry = r
	}
}

// WithStrict makes calls to unknown functions fail with
// [pkg.ErrUnknownFunction] instead of resolving to "".
func WithStrict(strict bool) Option {
	return func(ev *Evaluator) {
		ev.strict = strict
	}
}

// WithLogger sets the logger used to report recoverable conditions.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(ev *Evaluator) {
		ev.logger = logger
	}
}

// WithObserver registers fn to receive recoverable conditions.
func WithObserver(fn Observer) Option {
	return func(ev *Evaluator) {
		ev.observer = fn
	}
}

// NewEvaluator returns an Evaluator in lenient mode using
// [DefaultRegistry], modified by opts.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := &Evaluator{registry: DefaultRegistry()}

	for _, opt := range opts {
		opt(ev)
	}

	return ev
}

// Stats returns the counts of recoverable conditions observed so far.
func (ev *Evaluator) Stats() Stats {
	return Stats{
		Unresolved: ev.unresolved.Load(),
		Unknown:    ev.unknown.Load(),
	}
}

// Evaluate computes s.Value against root and stores the result at s.Target.
//
// Target segments are consumed from last to first: every segment but the
// first-written one names an object to descend into (created, or replacing a
// non-object, when needed), and the first-written segment is the key that
// receives the string. So "x.y = 'a'" on {} yields {"y": {"x": "a"}}.
func (ev *Evaluator) Evaluate(
	ctx context.Context,
	s *Script,
	root *value.Value,
) error {
	if !root.IsObject() {
		return pkg.ErrInvalidContext.With(slog.String("kind", root.Kind().String()))
	}

	if len(s.Target) == 0 {
		return pkg.ErrMalformedScript.With(slog.String("reason", reasonExpectedPath))
	}

	str, err := ev.Resolve(ctx, s.Value, root)
	if err != nil {
		return pkg.WrapError(err).With(slog.String("script", s.String()))
	}

	node := root

	for i := len(s.Target) - 1; i > 0; i-- {
		seg := s.Target[i]

		child, ok := node.Get(seg)
		if !ok || !child.IsObject() {
			child = value.Object()
			node.Set(seg, child)
		}

		node = child
	}

	node.Set(s.Target[0], value.String(str))

	ev.logger.TraceContext(ctx, "script evaluated",
		slog.String("target", strings.Join(s.Target, ".")),
		slog.String("result", str))

	return nil
}

// EvaluateAll evaluates scripts in order against root, stopping at the first
// error.
func (ev *Evaluator) EvaluateAll(
	ctx context.Context,
	scripts []*Script,
	root *value.Value,
) error {
	for _, s := range scripts {
		err := ev.Evaluate(ctx, s, root)
		if err != nil {
			return err
		}
	}

	return nil
}

// Resolve evaluates an expression to a string. It implements [Resolver].
func (ev *Evaluator) Resolve(
	ctx context.Context,
	v Val,
	root *value.Value,
) (string, error) {
	switch v.Kind {
	case ValString:
		return v.Str, nil

	case ValVariable:
		return ev.read(ctx, v.Path, root)

	case ValCall:
		return ev.call(ctx, v, root)

	default:
		return "", pkg.ErrMalformedScript.With(slog.String("kind", v.Kind.String()))
	}
}

// read resolves a variable path with the same last-to-first descent as a
// write. A missing segment yields "".
func (ev *Evaluator) read(
	ctx context.Context,
	path []string,
	root *value.Value,
) (string, error) {
	node := root

	for i := len(path) - 1; i >= 0; i-- {
		child, ok := node.Get(path[i])
		if !ok {
			ev.unresolved.Add(1)
			ev.report(ctx, pkg.ErrUnresolvedVariable.With(
				slog.String("variable", strings.Join(path, ".")),
				slog.String("missing", path[i]),
			))

			return "", nil
		}

		node = child
	}

	str, ok := node.Str()
	if !ok {
		return "", pkg.ErrInvalidValueType.With(
			slog.String("variable", strings.Join(path, ".")),
			slog.String("kind", node.Kind().String()),
		)
	}

	return str, nil
}

func (ev *Evaluator) call(
	ctx context.Context,
	v Val,
	root *value.Value,
) (string, error) {
	fn, ok := ev.registry.Lookup(v.Name)
	if ok {
		return fn.Call(ctx, ev, v.Args, root)
	}

	err := pkg.ErrUnknownFunction.With(slog.String("function", v.Name))

	ev.unknown.Add(1)

	if ev.strict {
		return "", err
	}

	ev.report(ctx, err)

	return "", nil
}

// report makes a recoverable condition visible to the logger and observer.
func (ev *Evaluator) report(ctx context.Context, err *pkg.Error) {
	if err.Is(pkg.ErrUnknownFunction) {
		ev.logger.WarnContext(ctx, "unknown function resolved to empty string",
			slog.Any("error", err))
	} else {
		ev.logger.DebugContext(ctx, "unresolved variable resolved to empty string",
			slog.Any("error", err))
	}

	if ev.observer != nil {
		ev.observer(ctx, err)
	}
}
