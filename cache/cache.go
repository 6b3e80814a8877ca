package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/EmmChriss/msc/pkg"
	"github.com/EmmChriss/msc/value"
)

// FileMode is the permission mode of a written cache file.
const FileMode os.FileMode = 0o600

// Entry is the cached metadata of one library URL.
type Entry struct {
	URL   string `json:"url"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Section groups the cached entries of one descriptor section.
type Section struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

// Cache is an in-memory copy of the cache store. It is not safe for
// concurrent mutation; the file itself is guarded by an advisory lock while
// it is read or written.
type Cache struct {
	Sections []Section
}

// Load reads the cache store at path. A missing file yields an empty cache.
func Load(ctx context.Context, path string) (*Cache, error) {
	unlock, err := pkg.RLock(ctx, path)
	if err != nil {
		return nil, err
	}
	defer unlock() //nolint:errcheck

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Cache{}, nil
		}

		return nil, pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Cache{}, nil
	}

	c, err := decode(data)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}

	return c, nil
}

// decode validates the document shape before accepting it.
func decode(data []byte) (*Cache, error) {
	root, err := value.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pkg.ErrMalformedDescriptor.Wrap(err)
	}

	if root.Kind() != value.KindArray {
		return nil, malformed("top level is not an array", -1)
	}

	c := &Cache{Sections: make([]Section, 0, root.Len())}

	for i := range root.Len() {
		item, _ := root.Index(i)
		if !item.IsObject() {
			return nil, malformed("section is not an object", i)
		}

		path, ok := item.Get("path")
		if !ok {
			return nil, malformed("section has no path", i)
		}

		pathStr, ok := path.Str()
		if !ok {
			return nil, malformed("section path is not a string", i)
		}

		entries, ok := item.Get("entries")
		if !ok {
			return nil, malformed("section has no entries", i)
		}

		if entries.Kind() != value.KindArray {
			return nil, malformed("section entries is not an array", i)
		}

		sec := Section{Path: pathStr, Entries: make([]Entry, 0, entries.Len())}

		for j := range entries.Len() {
			ev, _ := entries.Index(j)

			e, err := decodeEntry(ev)
			if err != nil {
				return nil, err.With(slog.Int("section", i), slog.Int("entry", j))
			}

			sec.Entries = append(sec.Entries, e)
		}

		c.Sections = append(c.Sections, sec)
	}

	return c, nil
}

func decodeEntry(v *value.Value) (Entry, *pkg.Error) {
	if !v.IsObject() {
		return Entry{}, pkg.ErrMalformedDescriptor.With(
			slog.String("reason", "entry is not an object"))
	}

	var e Entry

	for key, dst := range map[string]*string{"url": &e.URL, "id": &e.ID, "title": &e.Title} {
		field, ok := v.Get(key)
		if !ok {
			return Entry{}, pkg.ErrMalformedDescriptor.With(
				slog.String("reason", "entry is missing a field"),
				slog.String("field", key))
		}

		*dst, ok = field.Str()
		if !ok {
			return Entry{}, pkg.ErrMalformedDescriptor.With(
				slog.String("reason", "entry field is not a string"),
				slog.String("field", key))
		}
	}

	return e, nil
}

func malformed(reason string, index int) *pkg.Error {
	err := pkg.ErrMalformedDescriptor.With(slog.String("reason", reason))
	if index >= 0 {
		err = err.With(slog.Int("section", index))
	}

	return err
}

// Write replaces the cache store at path with c. The file is written to a
// temporary sibling and renamed into place.
func (c *Cache) Write(ctx context.Context, path string) error {
	unlock, err := pkg.Lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck

	sections := c.Sections
	if sections == nil {
		sections = []Section{}
	}

	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return pkg.ErrIO.Wrap(err)
	}

	data = append(data, '\n')

	err = os.MkdirAll(filepath.Dir(path), pkg.DirMode)
	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(FileMode)
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// Section returns the cached section stored under path.
func (c *Cache) Section(path string) (*Section, bool) {
	i := slices.IndexFunc(c.Sections, func(s Section) bool { return s.Path == path })
	if i < 0 {
		return nil, false
	}

	return &c.Sections[i], true
}

// Lookup returns the entry cached for url in the section at path.
func (c *Cache) Lookup(path, url string) (Entry, bool) {
	sec, ok := c.Section(path)
	if !ok {
		return Entry{}, false
	}

	i := slices.IndexFunc(sec.Entries, func(e Entry) bool { return e.URL == url })
	if i < 0 {
		return Entry{}, false
	}

	return sec.Entries[i], true
}

// Put stores e in the section at path, replacing an entry with the same URL.
// A missing section is appended.
func (c *Cache) Put(path string, e Entry) {
	sec, ok := c.Section(path)
	if !ok {
		c.Sections = append(c.Sections, Section{Path: path, Entries: []Entry{e}})

		return
	}

	i := slices.IndexFunc(sec.Entries, func(x Entry) bool { return x.URL == e.URL })
	if i < 0 {
		sec.Entries = append(sec.Entries, e)

		return
	}

	sec.Entries[i] = e
}

// Remove deletes the entry cached for url in the section at path and reports
// whether one existed. A section left empty is dropped.
func (c *Cache) Remove(path, url string) bool {
	sec, ok := c.Section(path)
	if !ok {
		return false
	}

	n := len(sec.Entries)
	sec.Entries = slices.DeleteFunc(sec.Entries, func(e Entry) bool { return e.URL == url })

	if len(sec.Entries) == n {
		return false
	}

	if len(sec.Entries) == 0 {
		c.Sections = slices.DeleteFunc(c.Sections, func(s Section) bool { return s.Path == path })
	}

	return true
}

// Len returns the total number of cached entries.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Entries)
	}

	return n
}
