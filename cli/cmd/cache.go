package cmd

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/EmmChriss/msc/cache"
	"github.com/EmmChriss/msc/log"
)

// Cache inspects and edits the metadata cache store.
type Cache struct {
	Show  CacheShow  `cmd:"" default:"withargs" help:"Print cached entries (default)."`
	Set   CacheSet   `cmd:""                    help:"Store metadata for an entry."`
	Clear CacheClear `cmd:""                    help:"Remove every cached entry."`
}

// CacheShow prints the cache contents.
type CacheShow struct {
	Format string `default:"table" enum:"table,json,yaml" help:"Output format." short:"f"`
}

// Run executes the cache show command.
func (s *CacheShow) Run(ctx context.Context, g *Globals) error {
	c, err := g.loadCache(ctx)
	if err != nil {
		return err
	}

	if s.Format != formatTable {
		sections := c.Sections
		if sections == nil {
			sections = []cache.Section{}
		}

		return encode(g.stdout(), s.Format, sections)
	}

	var rows [][]string

	for _, sec := range c.Sections {
		for _, e := range sec.Entries {
			rows = append(rows, []string{sectionName(sec.Path), e.URL, e.ID, e.Title})
		}
	}

	return renderTable(g.stdout(), []string{"Section", "URL", "ID", "Title"}, rows)
}

// CacheSet stores an entry in the cache.
type CacheSet struct {
	Path  string `arg:"" help:"Section path of the entry."`
	URL   string `arg:"" help:"URL of the entry."`
	ID    string `help:"Entry id (default: a random UUID)."`
	Title string `help:"Entry title."`
}

// Run executes the cache set command.
func (s *CacheSet) Run(ctx context.Context, g *Globals) error {
	c, err := g.loadCache(ctx)
	if err != nil {
		return err
	}

	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}

	c.Put(s.Path, cache.Entry{URL: s.URL, ID: id, Title: s.Title})

	err = c.Write(ctx, g.Cache)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "cache entry stored",
		slog.String("section", sectionName(s.Path)),
		slog.String("url", s.URL),
		slog.String("id", id),
	)

	return nil
}

// CacheClear empties the cache.
type CacheClear struct{}

// Run executes the cache clear command.
func (*CacheClear) Run(ctx context.Context, g *Globals) error {
	err := (&cache.Cache{}).Write(ctx, g.Cache)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "cache cleared", slog.String("path", g.Cache))

	return nil
}
