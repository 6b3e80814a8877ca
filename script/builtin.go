package script

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/EmmChriss/msc/pkg"
	"github.com/EmmChriss/msc/value"
)

// Resolver evaluates argument expressions on behalf of a builtin.
// [*Evaluator] is the Resolver passed to every builtin.
type Resolver interface {
	Resolve(ctx context.Context, v Val, root *value.Value) (string, error)
}

// Builtin is a named, value-transforming function callable from scripts.
// Arguments arrive unevaluated; the builtin decides whether and how to
// evaluate each one.
type Builtin interface {
	Call(ctx context.Context, r Resolver, args []Val, root *value.Value) (string, error)
}

// BuiltinFunc adapts an ordinary function to the [Builtin] interface.
type BuiltinFunc func(ctx context.Context, r Resolver, args []Val, root *value.Value) (string, error)

// Call implements [Builtin].
func (f BuiltinFunc) Call(
	ctx context.Context,
	r Resolver,
	args []Val,
	root *value.Value,
) (string, error) {
	return f(ctx, r, args, root)
}

// Registry maps function names to builtins. A Registry must not be modified
// while evaluations that use it are running.
type Registry struct {
	funcs map[string]Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Builtin)}
}

// DefaultRegistry returns a new registry holding the standard builtins:
// replace, lower, upper, trim, and title.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("replace", BuiltinFunc(replace))
	r.Register("lower", unary("lower", strings.ToLower))
	r.Register("upper", unary("upper", strings.ToUpper))
	r.Register("trim", unary("trim", strings.TrimSpace))
	r.Register("title", unary("title", func(s string) string {
		// A Caser is stateful, so each call gets its own.
		return cases.Title(language.Und).String(s)
	}))

	return r
}

// Register adds or replaces the builtin stored under name.
func (r *Registry) Register(name string, fn Builtin) {
	r.funcs[name] = fn
}

// Lookup returns the builtin stored under name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	if r == nil {
		return nil, false
	}

	fn, ok := r.funcs[name]

	return fn, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(r.funcs))
}

// replace(str, from, to) substitutes every occurrence of the literal from in
// str with to.
func replace(
	ctx context.Context,
	r Resolver,
	args []Val,
	root *value.Value,
) (string, error) {
	err := checkArity("replace", args, 3)
	if err != nil {
		return "", err
	}

	// Only literal patterns are implemented.
	if args[1].Kind != ValString {
		return "", pkg.ErrUnsupportedArgument.With(
			slog.String("function", "replace"),
			slog.String("argument", "from"),
			slog.String("kind", args[1].Kind.String()),
		)
	}

	strs, err := resolveAll(ctx, r, args, root)
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(strs[0], strs[1], strs[2]), nil
}

// unary builds a single-argument builtin from a string transform.
func unary(name string, fn func(string) string) Builtin {
	return BuiltinFunc(func(
		ctx context.Context,
		r Resolver,
		args []Val,
		root *value.Value,
	) (string, error) {
		err := checkArity(name, args, 1)
		if err != nil {
			return "", err
		}

		s, err := r.Resolve(ctx, args[0], root)
		if err != nil {
			return "", err
		}

		return fn(s), nil
	})
}

func checkArity(name string, args []Val, want int) error {
	if len(args) == want {
		return nil
	}

	return pkg.ErrWrongArity.With(
		slog.String("function", name),
		slog.Int("expected", want),
		slog.Int("got", len(args)),
	)
}

func resolveAll(
	ctx context.Context,
	r Resolver,
	args []Val,
	root *value.Value,
) ([]string, error) {
	strs := make([]string, len(args))

	for i, arg := range args {
		s, err := r.Resolve(ctx, arg, root)
		if err != nil {
			return nil, err
		}

		strs[i] = s
	}

	return strs, nil
}
