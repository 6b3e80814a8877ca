package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/EmmChriss/msc/library"
	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
)

// playlistToken marks an entry whose URL refers to a playlist.
const playlistToken = "playlist"

// Add appends an entry to a section of the library.
type Add struct {
	URL      string `arg:""                                                              help:"URL to add to the library."`
	Playlist bool   `help:"URL contains a playlist."                                     short:"p"`
	Section  string `help:"Section to add to (default: the last section in the file)." placeholder:"PATH" short:"s"`
}

// Run executes the add command.
func (a *Add) Run(ctx context.Context, g *Globals) error {
	url := strings.TrimSpace(a.URL)
	if url == "" || strings.ContainsAny(url, " \t#") || strings.ContainsAny(url[:1], "/-$") {
		return pkg.ErrMalformedDescriptor.With(
			slog.String("reason", "entry URL must be a single token without a line marker"),
			slog.String("url", a.URL),
		)
	}

	line := url
	if a.Playlist {
		line += " " + playlistToken
	}

	return g.edit(ctx, func(doc *library.Document) error {
		section := a.Section
		if section == "" {
			section = doc.LastSection()
		} else if !library.IsSection(section) {
			return pkg.ErrMalformedDescriptor.With(
				slog.String("reason", "section must start with '/' and hold no comment"),
				slog.String("section", section),
			)
		}

		created := doc.Add(section, line)

		log.InfoContext(ctx, "entry added",
			slog.String("url", url),
			slog.String("section", sectionName(section)),
			slog.Bool("playlist", a.Playlist),
			slog.Bool("new_section", created),
		)

		return nil
	})
}
