package library

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/EmmChriss/msc/pkg"
	"github.com/EmmChriss/msc/script"
)

func mustParse(t *testing.T, src string) *Descriptor {
	t.Helper()

	d, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return d
}

func TestBuild_Sections(t *testing.T) {
	src := `# my library
https://example.com/loose

/rock
https://example.com/a
-format=opus
https://example.com/b playlist   # trailing tokens are dropped
$ title.full = replace(title.raw, "_", " ")

/jazz
-quiet
`
	d := mustParse(t, src)

	if got, want := d.Paths(), []string{"", "/jazz", "/rock"}; !slices.Equal(got, want) {
		t.Fatalf("Paths() = %q, want %q", got, want)
	}

	tests := []struct {
		path    string
		urls    []string
		options []string
		scripts int
	}{
		{"", []string{"https://example.com/loose"}, nil, 0},
		{"/rock", []string{"https://example.com/a", "https://example.com/b"}, []string{"-format=opus"}, 1},
		{"/jazz", nil, []string{"-quiet"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			entries, ok := d.Section(tt.path)
			if !ok {
				t.Fatalf("section %q missing", tt.path)
			}

			// URL entries followed by exactly one synthetic entry.
			if got, want := len(entries), len(tt.urls)+1; got != want {
				t.Fatalf("len(entries) = %d, want %d", got, want)
			}

			last := entries[len(entries)-1]
			if !last.IsSynthetic() {
				t.Errorf("last entry URL = %q, want synthetic", last.URL)
			}

			for _, e := range entries[:len(entries)-1] {
				if len(e.Rules) != 0 {
					t.Errorf("entry %q carries %d rules", e.URL, len(e.Rules))
				}
			}

			if got := d.URLs(tt.path); !slices.Equal(got, tt.urls) {
				t.Errorf("URLs() = %q, want %q", got, tt.urls)
			}

			if got := d.Options(tt.path); !slices.Equal(got, tt.options) {
				t.Errorf("Options() = %q, want %q", got, tt.options)
			}

			if got := len(d.Scripts(tt.path)); got != tt.scripts {
				t.Errorf("len(Scripts()) = %d, want %d", got, tt.scripts)
			}
		})
	}

	want := script.MustParse(`$ title.full = replace(title.raw, "_", " ")`)
	if got := d.Scripts("/rock")[0]; !got.Equal(want) {
		t.Errorf("script = %s, want %s", got, want)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	d := mustParse(t, "")

	entries, ok := d.Section("")
	if !ok || len(entries) != 1 || !entries[0].IsSynthetic() || len(entries[0].Rules) != 0 {
		t.Errorf(`Section("") = %+v, %v; want one empty synthetic entry`, entries, ok)
	}
}

func TestBuild_DuplicateSectionKeepsLast(t *testing.T) {
	d := mustParse(t, "/a\nfirst\n/b\nother\n/a\nsecond\n")

	if got, want := d.URLs("/a"), []string{"second"}; !slices.Equal(got, want) {
		t.Errorf(`URLs("/a") = %q, want %q`, got, want)
	}

	if got, want := d.URLs("/b"), []string{"other"}; !slices.Equal(got, want) {
		t.Errorf(`URLs("/b") = %q, want %q`, got, want)
	}
}

func TestBuild_HeaderKeyIsRaw(t *testing.T) {
	d := mustParse(t, "/a # note\nx\n/a\ny\n")

	if got, want := d.Paths(), []string{"", "/a", "/a "}; !slices.Equal(got, want) {
		t.Errorf("Paths() = %q, want %q", got, want)
	}
}

func TestBuild_OptionKeepsWholeLine(t *testing.T) {
	d := mustParse(t, "-codec opus  # comment\n")

	if got, want := d.Options(""), []string{"-codec opus  "}; !slices.Equal(got, want) {
		t.Errorf("Options() = %q, want %q", got, want)
	}
}

func TestBuild_RulesFlushAtBoundary(t *testing.T) {
	d := mustParse(t, "/a\n-one\nurl1\n$x = 'a'\nurl2\n-two\n/b\n")

	entries, _ := d.Section("/a")
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	rules := entries[2].Rules
	if len(rules) != 3 {
		t.Fatalf("synthetic entry has %d rules, want 3", len(rules))
	}

	kinds := []RuleKind{rules[0].Kind, rules[1].Kind, rules[2].Kind}
	if want := []RuleKind{RuleOption, RuleScript, RuleOption}; !slices.Equal(kinds, want) {
		t.Errorf("rule kinds = %v, want %v", kinds, want)
	}
}

func TestBuild_MalformedScript(t *testing.T) {
	_, err := ParseString(context.Background(), "/a\nurl\n$x = 'unterminated\n")
	if !errors.Is(err, pkg.ErrMalformedScript) {
		t.Fatalf("expected ErrMalformedScript, got %v", err)
	}

	var pe *pkg.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *pkg.Error, got %T", err)
	}

	line, ok := pe.Attr("line")
	if !ok || line.Int64() != 3 {
		t.Errorf("line attr = %v (%v), want 3", line, ok)
	}
}

func TestBuild_ReadFailure(t *testing.T) {
	boom := errors.New("disk on fire")

	var lines iter.Seq2[string, error] = func(yield func(string, error) bool) {
		if !yield("/a", nil) || !yield("url", nil) {
			return
		}

		yield("", boom)
	}

	d, err := Build(context.Background(), lines)
	if !errors.Is(err, pkg.ErrIO) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrIO wrapping cause, got %v", err)
	}

	if d != nil {
		t.Errorf("partial descriptor returned: %+v", d)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir()+"/absent.msc")
	if !errors.Is(err, pkg.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

// The first header holds one entry per entry line up to the next header,
// plus the synthetic entry carrying all of its rules. With a single rule
// line that equals the number of non-header lines before the second header.
func TestBuild_FirstSectionEntryCount(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"one rule line", "/a\nu1\nu2\n-opt\n/b\nu3\n", 3},
		{"rule between entries", "/a\nu1\n$x = 'v'\nu2\n/b\n", 3},
		{"entries only", "/a\nu1\nu2\n/b\n", 3},
		{"rules only", "/a\n-o1\n-o2\n$x = 'v'\n/b\n", 1},
		{"empty section", "/a\n/b\nu3\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, ok := mustParse(t, tt.src).Section("/a")
			if !ok {
				t.Fatal("section /a missing")
			}

			if len(entries) != tt.want {
				t.Errorf("len(entries) = %d, want %d", len(entries), tt.want)
			}

			if !entries[len(entries)-1].IsSynthetic() {
				t.Error("last entry is not synthetic")
			}
		})
	}
}

func TestBuild_EntryURL(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"https://a", "https://a"},
		{"  https://a", "https://a"},
		{"\thttps://a playlist", "https://a"},
		{"https://a # note", "https://a"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			d := mustParse(t, "/s\n"+tt.line+"\n")

			if got := d.URLs("/s"); !slices.Equal(got, []string{tt.want}) {
				t.Errorf("URLs() = %q, want [%q]", got, tt.want)
			}
		})
	}
}
