package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/sahilm/fuzzy"

	"github.com/EmmChriss/msc/library"
	"github.com/EmmChriss/msc/log"
)

// List prints the entries of the library.
type List struct {
	Expr   string `arg:""          help:"Fuzzy pattern matched against entry URLs."                        optional:""`
	Where  string `                help:"Keep entries for which the expression is true (fields: path, url, options, scripts)." short:"w"`
	Format string `default:"table" enum:"table,json,yaml" help:"Output format."                            short:"f"`
}

// Item is one listed entry. Its fields are the variables available to
// --where expressions.
type Item struct {
	Path    string   `expr:"path"    json:"path"              yaml:"path"`
	URL     string   `expr:"url"     json:"url"               yaml:"url"`
	Options []string `expr:"options" json:"options,omitempty" yaml:"options,omitempty"`
	Scripts int      `expr:"scripts" json:"scripts"           yaml:"scripts"`
}

// items implements [fuzzy.Source] over entry URLs.
type items []Item

func (s items) String(i int) string { return s[i].URL }

func (s items) Len() int { return len(s) }

// Run executes the list command.
func (l *List) Run(ctx context.Context, g *Globals) error {
	d, err := g.descriptor(ctx)
	if err != nil {
		return err
	}

	all := collect(d)

	if l.Where != "" {
		all, err = filter(all, l.Where)
		if err != nil {
			return err
		}
	}

	if l.Expr != "" {
		matches := fuzzy.FindFrom(l.Expr, all)

		found := make(items, 0, len(matches))
		for _, m := range matches {
			found = append(found, all[m.Index])
		}

		all = found
	}

	log.DebugContext(ctx, "entries listed",
		slog.String("expr", l.Expr),
		slog.String("where", l.Where),
		slog.Int("count", len(all)),
	)

	if l.Format != formatTable {
		return encode(g.stdout(), l.Format, []Item(all))
	}

	rows := make([][]string, 0, len(all))
	for i, it := range all {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			sectionName(it.Path),
			it.URL,
			strings.Join(it.Options, " "),
		})
	}

	return renderTable(g.stdout(), []string{"#", "Section", "URL", "Options"}, rows, 0)
}

// collect flattens the URL entries of d in sorted section order.
func collect(d *library.Descriptor) items {
	var all items

	for path, e := range d.All() {
		if e.IsSynthetic() {
			continue
		}

		all = append(all, Item{
			Path:    path,
			URL:     e.URL,
			Options: d.Options(path),
			Scripts: len(d.Scripts(path)),
		})
	}

	return all
}

func filter(all items, source string) (items, error) {
	program, err := expr.Compile(source, expr.Env(Item{}), expr.AsBool())
	if err != nil {
		return nil, ErrInvalidFilter.Wrap(err).With(slog.String("source", source))
	}

	kept := make(items, 0, len(all))

	for _, it := range all {
		ok, err := run(program, it)
		if err != nil {
			return nil, ErrInvalidFilter.Wrap(err).
				With(slog.String("source", source), slog.String("url", it.URL))
		}

		if ok {
			kept = append(kept, it)
		}
	}

	return kept, nil
}

func run(program *vm.Program, it Item) (bool, error) {
	out, err := expr.Run(program, it)
	if err != nil {
		return false, err
	}

	ok, _ := out.(bool)

	return ok, nil
}

// sectionName labels the unnamed leading section.
func sectionName(path string) string {
	if path == "" {
		return "(none)"
	}

	return path
}
