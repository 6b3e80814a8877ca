package cmd

import (
	"context"
	"log/slog"

	"github.com/EmmChriss/msc/library"
	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
)

// Remove deletes entries from the library.
type Remove struct {
	Expr string `arg:"" help:"URL of the entries to remove."`
}

// Run executes the remove command.
func (r *Remove) Run(ctx context.Context, g *Globals) error {
	return g.edit(ctx, func(doc *library.Document) error {
		n := doc.Remove(r.Expr)
		if n == 0 {
			return pkg.ErrEntryNotFound.With(slog.String("url", r.Expr))
		}

		log.InfoContext(ctx, "entries removed",
			slog.String("url", r.Expr),
			slog.Int("count", n),
		)

		return nil
	})
}
