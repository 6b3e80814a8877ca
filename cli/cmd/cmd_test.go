package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EmmChriss/msc/cache"
	"github.com/EmmChriss/msc/pkg"
)

const testLibrary = `# test library
/rock
https://example.com/abbey-road
https://example.com/let-it-be playlist
$ full = replace(title, "_", " ")

/jazz
-format=flac
https://example.com/kind-of-blue
`

// setup writes testLibrary and an empty cache location into a temporary
// directory and returns globals pointing at them.
func setup(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	lib := filepath.Join(dir, pkg.LibraryFile)

	if err := os.WriteFile(lib, []byte(testLibrary), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	return &Globals{
		Library: lib,
		Cache:   filepath.Join(dir, "cache", pkg.CacheFile),
		Stdout:  &out,
	}, &out
}

func readLibrary(t *testing.T, g *Globals) string {
	t.Helper()

	b, err := os.ReadFile(g.Library)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	g := &Globals{}

	if err := (&New{Path: dir}).Run(context.Background(), g); err != nil {
		t.Fatalf("new: %v", err)
	}

	file := filepath.Join(dir, pkg.LibraryFile)
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("library not created: %v", err)
	}

	err := (&New{Path: dir}).Run(context.Background(), g)
	if !errors.Is(err, pkg.ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}

	if err := (&New{Path: dir, Force: true}).Run(context.Background(), g); err != nil {
		t.Errorf("new --force: %v", err)
	}

	// The starter file must build.
	g.Library = file
	if _, err := g.descriptor(context.Background()); err != nil {
		t.Errorf("starter library does not build: %v", err)
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		cmd  List
		want []string
	}{
		{
			name: "all",
			cmd:  List{Format: formatJSON},
			want: []string{
				"https://example.com/kind-of-blue",
				"https://example.com/abbey-road",
				"https://example.com/let-it-be",
			},
		},
		{
			name: "fuzzy",
			cmd:  List{Expr: "abbey", Format: formatJSON},
			want: []string{"https://example.com/abbey-road"},
		},
		{
			name: "where",
			cmd:  List{Where: `path == "/rock" && scripts > 0`, Format: formatJSON},
			want: []string{"https://example.com/abbey-road", "https://example.com/let-it-be"},
		},
		{
			name: "where options",
			cmd:  List{Where: `"-format=flac" in options`, Format: formatJSON},
			want: []string{"https://example.com/kind-of-blue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, out := setup(t)

			if err := tt.cmd.Run(context.Background(), g); err != nil {
				t.Fatalf("list: %v", err)
			}

			var got []Item
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("decode %q: %v", out.String(), err)
			}

			urls := make([]string, 0, len(got))
			for _, it := range got {
				urls = append(urls, it.URL)
			}

			if strings.Join(urls, " ") != strings.Join(tt.want, " ") {
				t.Errorf("urls = %v, want %v", urls, tt.want)
			}
		})
	}
}

func TestList_Table(t *testing.T) {
	g, out := setup(t)

	if err := (&List{Format: formatTable}).Run(context.Background(), g); err != nil {
		t.Fatalf("list: %v", err)
	}

	for _, want := range []string{"URL", "/jazz", "https://example.com/let-it-be", "-format=flac"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("table does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestList_InvalidWhere(t *testing.T) {
	g, _ := setup(t)

	err := (&List{Where: `url +`, Format: formatJSON}).Run(context.Background(), g)
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		cmd  Add
		want string // line expected in the rewritten file
	}{
		{"default is last section", Add{URL: "https://new"}, "https://example.com/kind-of-blue\nhttps://new\n"},
		{"explicit section", Add{URL: "https://new", Section: "/rock"}, "\" \")\nhttps://new\n\n/jazz"},
		{"playlist token", Add{URL: "https://new", Playlist: true}, "https://new playlist\n"},
		{"new section", Add{URL: "https://new", Section: "/pop"}, "\n/pop\nhttps://new\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := setup(t)

			if err := tt.cmd.Run(context.Background(), g); err != nil {
				t.Fatalf("add: %v", err)
			}

			if got := readLibrary(t, g); !strings.Contains(got, tt.want) {
				t.Errorf("library =\n%s\nwant it to contain %q", got, tt.want)
			}
		})
	}
}

func TestAdd_RejectsMarkers(t *testing.T) {
	for _, url := range []string{"", "two words", "/section", "-opt", "$x = 'a'", "a#b"} {
		t.Run(url, func(t *testing.T) {
			g, _ := setup(t)

			err := (&Add{URL: url}).Run(context.Background(), g)
			if !errors.Is(err, pkg.ErrMalformedDescriptor) {
				t.Errorf("expected ErrMalformedDescriptor, got %v", err)
			}

			if got := readLibrary(t, g); got != testLibrary {
				t.Errorf("library modified:\n%s", got)
			}
		})
	}
}

func TestAdd_RejectsSection(t *testing.T) {
	for _, section := range []string{"music", " /rock", "/rock # note", "-opt"} {
		t.Run(section, func(t *testing.T) {
			g, _ := setup(t)

			err := (&Add{URL: "https://new", Section: section}).Run(context.Background(), g)
			if !errors.Is(err, pkg.ErrMalformedDescriptor) {
				t.Errorf("expected ErrMalformedDescriptor, got %v", err)
			}

			if got := readLibrary(t, g); got != testLibrary {
				t.Errorf("library modified:\n%s", got)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	g, _ := setup(t)

	if err := (&Remove{Expr: "https://example.com/let-it-be"}).Run(context.Background(), g); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if got := readLibrary(t, g); strings.Contains(got, "let-it-be") {
		t.Errorf("entry still present:\n%s", got)
	}

	err := (&Remove{Expr: "https://example.com/let-it-be"}).Run(context.Background(), g)
	if !errors.Is(err, pkg.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEval_FromCache(t *testing.T) {
	ctx := context.Background()
	g, out := setup(t)

	c := &cache.Cache{}
	c.Put("/rock", cache.Entry{URL: "https://example.com/abbey-road", ID: "1", Title: "Abbey_Road"})

	if err := c.Write(ctx, g.Cache); err != nil {
		t.Fatal(err)
	}

	if err := (&Eval{Section: "/rock", Format: formatJSON}).Run(ctx, g); err != nil {
		t.Fatalf("eval: %v", err)
	}

	var got []struct {
		URL     string            `json:"url"`
		Context map[string]string `json:"context"`
	}

	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}

	if len(got) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(got))
	}

	if got[0].Context["full"] != "Abbey Road" || got[0].Context["id"] != "1" {
		t.Errorf("cached entry context = %v", got[0].Context)
	}

	// Uncached entries still evaluate; the missing title resolves to "".
	if v, ok := got[1].Context["full"]; !ok || v != "" {
		t.Errorf("uncached entry context = %v", got[1].Context)
	}
}

func TestEval_SuppliedContext(t *testing.T) {
	g, out := setup(t)
	g.Stdin = strings.NewReader(`{"title":"Kind_of_Blue"}`)

	if err := (&Eval{Section: "/rock", Context: "-", Format: formatJSON}).Run(context.Background(), g); err != nil {
		t.Fatalf("eval: %v", err)
	}

	want := `"full": "Kind of Blue"`
	if !strings.Contains(out.String(), want) {
		t.Errorf("output %q does not contain %q", out.String(), want)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cmd   Eval
		stdin string
		want  error
	}{
		{"unknown section", Eval{Section: "/nope", Format: formatJSON}, "", pkg.ErrSectionNotFound},
		{"array context", Eval{Section: "/rock", Context: "-", Format: formatJSON}, `[]`, pkg.ErrInvalidContext},
		{"malformed context", Eval{Section: "/rock", Context: "-", Format: formatJSON}, `{`, pkg.ErrInvalidContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := setup(t)
			g.Stdin = strings.NewReader(tt.stdin)

			err := tt.cmd.Run(context.Background(), g)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEval_Strict(t *testing.T) {
	g, _ := setup(t)

	if err := os.WriteFile(g.Library, []byte("/a\nurl\n$ x = nope(title)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := (&Eval{Format: formatJSON}).Run(context.Background(), g); err != nil {
		t.Errorf("lenient eval: %v", err)
	}

	err := (&Eval{Strict: true, Format: formatJSON}).Run(context.Background(), g)
	if !errors.Is(err, pkg.ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestFmt(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		g, out := setup(t)

		if err := (&JSON{Indent: 2}).Run(context.Background(), g); err != nil {
			t.Fatalf("fmt json: %v", err)
		}

		var got []struct {
			Path string `json:"path"`
		}

		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if len(got) != 3 || got[0].Path != "" || got[1].Path != "/jazz" || got[2].Path != "/rock" {
			t.Errorf("sections = %+v", got)
		}
	})

	t.Run("yaml from stdin", func(t *testing.T) {
		g, out := setup(t)
		g.Stdin = strings.NewReader("/a\nurl\n-opt\n")

		if err := (&YAML{Indent: 2, Source: "-"}).Run(context.Background(), g); err != nil {
			t.Fatalf("fmt yaml: %v", err)
		}

		for _, want := range []string{"path: /a", "url: url", "option: -opt"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output %q does not contain %q", out.String(), want)
			}
		}
	})
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	g, out := setup(t)

	if err := (&CacheSet{Path: "/rock", URL: "https://x", Title: "X"}).Run(ctx, g); err != nil {
		t.Fatalf("cache set: %v", err)
	}

	c, err := cache.Load(ctx, g.Cache)
	if err != nil {
		t.Fatal(err)
	}

	e, ok := c.Lookup("/rock", "https://x")
	if !ok || e.Title != "X" || len(e.ID) != 36 {
		t.Errorf("stored entry = %+v, %v; want generated UUID id", e, ok)
	}

	if err := (&CacheShow{Format: formatTable}).Run(ctx, g); err != nil {
		t.Fatalf("cache show: %v", err)
	}

	if !strings.Contains(out.String(), "https://x") {
		t.Errorf("show output = %q", out.String())
	}

	if err := (&CacheClear{}).Run(ctx, g); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	c, err = cache.Load(ctx, g.Cache)
	if err != nil || c.Len() != 0 {
		t.Errorf("cache after clear = %+v, %v", c, err)
	}
}
