package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/EmmChriss/msc/cache"
	"github.com/EmmChriss/msc/library"
	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
)

// Globals holds the flags and streams shared by all commands.
type Globals struct {
	Library string `default:"${library}" help:"Library descriptor file." placeholder:"FILE" short:"l" type:"path"`
	Cache   string `default:"${cache}"   help:"Metadata cache file."     placeholder:"FILE"           type:"path"`

	Stdout io.Writer `kong:"-"`
	Stdin  io.Reader `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}

	return g.Stdout
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin == nil {
		return os.Stdin
	}

	return g.Stdin
}

// descriptor loads and builds the library descriptor.
func (g *Globals) descriptor(ctx context.Context) (*library.Descriptor, error) {
	d, err := library.Load(ctx, g.Library, library.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "library loaded",
		slog.String("path", g.Library),
		slog.Int("sections", len(d.Sections)),
		slog.Int("entries", d.Len()),
	)

	return d, nil
}

// loadCache loads the metadata cache store.
func (g *Globals) loadCache(ctx context.Context) (*cache.Cache, error) {
	c, err := cache.Load(ctx, g.Cache)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "cache loaded",
		slog.String("path", g.Cache),
		slog.Int("entries", c.Len()),
	)

	return c, nil
}

// edit rewrites the library descriptor through fn while holding its lock.
func (g *Globals) edit(ctx context.Context, fn func(*library.Document) error) error {
	unlock, err := pkg.Lock(ctx, g.Library)
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck

	info, err := os.Stat(g.Library)
	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", g.Library))
	}

	src, err := os.ReadFile(g.Library)
	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", g.Library))
	}

	doc := library.NewDocument(string(src))

	err = fn(doc)
	if err != nil {
		return err
	}

	// The edited text must still build.
	_, err = library.ParseString(ctx, doc.String())
	if err != nil {
		return err
	}

	err = os.WriteFile(g.Library, []byte(doc.String()), info.Mode().Perm())
	if err != nil {
		return ErrWriteLibrary.Wrap(err).With(slog.String("path", g.Library))
	}

	return nil
}

// stdinSource is the special source name for reading from stdin.
const stdinSource = "-"

// open returns a reader for path, or stdin for [stdinSource].
func (g *Globals) open(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(g.stdin()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	return f, nil
}
