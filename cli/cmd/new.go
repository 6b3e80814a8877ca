package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
)

// starter is the content of a newly created library.
const starter = `# msc library
#
#   /section/path        start a section
#   <url> [playlist]     add an entry
#   -option              pass an option line through unchanged
#   $ target = value     compute metadata for the section's entries, e.g.
#                        $ full.title = replace(title, "_", " ")
#
# Anything following '#' is a comment.

/
`

// New creates a library descriptor in a directory.
type New struct {
	Path  string `arg:"" default:"." help:"Directory in which to create the library (default: working directory)." type:"existingdir"`
	Force bool   `help:"Overwrite an existing library file." short:"f"`
}

// Run executes the new command.
func (n *New) Run(ctx context.Context, g *Globals) error {
	file := filepath.Join(n.Path, pkg.LibraryFile)

	_, err := os.Stat(file)
	if err == nil && !n.Force {
		return ErrWriteLibrary.
			With(slog.String("file", file), slog.Bool("exists", true)).
			Wrap(pkg.ErrFileExists)
	}

	err = os.WriteFile(file, []byte(starter), 0o644) //nolint:gosec
	if err != nil {
		return ErrWriteLibrary.With(slog.String("file", file)).Wrap(err)
	}

	log.InfoContext(ctx, "library created", slog.String("path", file))

	return nil
}
