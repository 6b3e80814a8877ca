package cmd

import (
	"context"
	"log/slog"

	"github.com/EmmChriss/msc/library"
	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
	"github.com/EmmChriss/msc/script"
	"github.com/EmmChriss/msc/value"
)

// Eval applies section scripts to entry metadata and prints the results.
type Eval struct {
	Section string `arg:""         help:"Section to evaluate (default: every section)."                                    optional:""`
	Context string `               help:"Evaluate against a JSON context file ('-' for stdin) instead of cached metadata." placeholder:"FILE" short:"c"`
	Strict  bool   `               help:"Fail on calls to unknown functions."`
	Format  string `default:"json" enum:"json,yaml"                                                                        help:"Output format." short:"f"`
}

// Result is the evaluated context of one entry.
type Result struct {
	Path    string       `json:"path"          yaml:"path"`
	URL     string       `json:"url,omitempty" yaml:"url,omitempty"`
	Context *value.Value `json:"context"       yaml:"context"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, g *Globals) error {
	d, err := g.descriptor(ctx)
	if err != nil {
		return err
	}

	paths, err := e.paths(d)
	if err != nil {
		return err
	}

	ev := script.NewEvaluator(
		script.WithStrict(e.Strict),
		script.WithLogger(log.Default()),
	)

	var results []Result

	if e.Context != "" {
		results, err = e.evalContext(ctx, g, d, ev, paths)
	} else {
		results, err = e.evalCache(ctx, g, d, ev, paths)
	}

	if err != nil {
		return err
	}

	stats := ev.Stats()
	log.DebugContext(ctx, "evaluation finished",
		slog.Int("results", len(results)),
		slog.Int64("unresolved", stats.Unresolved),
		slog.Int64("unknown", stats.Unknown),
	)

	if results == nil {
		results = []Result{}
	}

	return encode(g.stdout(), e.Format, results)
}

func (e *Eval) paths(d *library.Descriptor) ([]string, error) {
	if e.Section == "" {
		return d.Paths(), nil
	}

	if _, ok := d.Section(e.Section); !ok {
		return nil, pkg.ErrSectionNotFound.With(slog.String("section", e.Section))
	}

	return []string{e.Section}, nil
}

// evalContext applies the scripts of every selected section, in order, to
// one supplied context.
func (e *Eval) evalContext(
	ctx context.Context,
	g *Globals,
	d *library.Descriptor,
	ev *script.Evaluator,
	paths []string,
) ([]Result, error) {
	r, err := g.open(e.Context)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	root, err := value.Decode(r)
	if err != nil {
		return nil, pkg.ErrInvalidContext.Wrap(err).With(slog.String("file", e.Context))
	}

	if !root.IsObject() {
		return nil, pkg.ErrInvalidContext.With(
			slog.String("file", e.Context),
			slog.String("kind", root.Kind().String()),
		)
	}

	results := make([]Result, 0, len(paths))

	for _, path := range paths {
		err := ev.EvaluateAll(ctx, d.Scripts(path), root)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.String("section", path))
		}

		results = append(results, Result{Path: path, Context: root.Clone()})
	}

	return results, nil
}

// evalCache evaluates every URL entry against a context built from its
// cached metadata.
func (e *Eval) evalCache(
	ctx context.Context,
	g *Globals,
	d *library.Descriptor,
	ev *script.Evaluator,
	paths []string,
) ([]Result, error) {
	c, err := g.loadCache(ctx)
	if err != nil {
		return nil, err
	}

	var results []Result

	for _, path := range paths {
		scripts := d.Scripts(path)

		for _, url := range d.URLs(path) {
			root := value.Object()
			root.Set("url", value.String(url))

			if cached, ok := c.Lookup(path, url); ok {
				root.Set("id", value.String(cached.ID))
				root.Set("title", value.String(cached.Title))
			} else {
				log.DebugContext(ctx, "entry not cached",
					slog.String("section", path),
					slog.String("url", url),
				)
			}

			err := ev.EvaluateAll(ctx, scripts, root)
			if err != nil {
				return nil, pkg.WrapError(err).With(
					slog.String("section", path),
					slog.String("url", url),
				)
			}

			results = append(results, Result{Path: path, URL: url, Context: root})
		}
	}

	return results, nil
}
