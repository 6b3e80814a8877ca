package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
)

func TestRun_NewAddRemove(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, pkg.LibraryFile)
	exit := func(code int) { t.Fatalf("unexpected exit(%d)", code) }

	steps := [][]string{
		{"--log-level=error", "new", dir},
		{"--log-level=error", "-l", lib, "add", "https://example.com/a", "-s", "/pop"},
		{"--log-level=error", "-l", lib, "a", "-p", "https://example.com/b"},
		{"--log-level=error", "-l", lib, "rm", "https://example.com/a"},
	}

	for _, args := range steps {
		if err := Run(context.Background(), exit, args...); err != nil {
			t.Fatalf("Run(%q): %v", args, err)
		}
	}

	b, err := os.ReadFile(lib)
	if err != nil {
		t.Fatal(err)
	}

	got := string(b)

	if !strings.HasSuffix(got, "/pop\nhttps://example.com/b playlist\n") {
		t.Errorf("library does not end with the added entry:\n%s", got)
	}

	if strings.Contains(got, "https://example.com/a") {
		t.Errorf("removed entry still present:\n%s", got)
	}
}

func TestRun_UnknownSection(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, pkg.LibraryFile)

	if err := os.WriteFile(lib, []byte("/a\nurl\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), func(int) {}, "--log-level=error", "-l", lib, "eval", "/b")
	if err == nil {
		t.Fatal("eval of a missing section succeeded")
	}
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
	}{
		{"assigned", []string{"--log-level=debug", "--log-format=json"}, "debug", "json", false},
		{"separate value", []string{"list", "--log-level", "warn"}, "warn", "", false},
		{"pretty", []string{"--log-pretty"}, "", "", true},
		{"negated", []string{"--log-pretty", "--no-log-pretty"}, "", "", false},
		{"other flags ignored", []string{"--level=debug", "-v"}, "", "", false},
	}

	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithPretty(false),
		)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f logConfig

			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format || f.Pretty != tt.pretty {
				t.Errorf("scan(%q) = {%q %q %v}, want {%q %q %v}",
					tt.args, f.Level, f.Format, f.Pretty, tt.level, tt.format, tt.pretty)
			}
		})
	}
}
