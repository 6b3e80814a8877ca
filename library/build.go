package library

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/EmmChriss/msc/log"
	"github.com/EmmChriss/msc/pkg"
	"github.com/EmmChriss/msc/script"
)

// Line markers recognized by the builder.
const (
	CommentMarker = '#'
	SectionMarker = '/'
	OptionMarker  = '-'
	ScriptMarker  = script.Marker
)

// maxLineSize bounds a single descriptor line.
const maxLineSize = 1 << 20

// lineKind classifies a comment-stripped descriptor line.
type lineKind int

const (
	lineBlank lineKind = iota
	lineSection
	lineOption
	lineScript
	lineEntry
)

// classify strips the comment from raw and reports what the rest is.
func classify(raw string) (lineKind, string) {
	line, _, _ := strings.Cut(raw, string(CommentMarker))

	if strings.TrimSpace(line) == "" {
		return lineBlank, line
	}

	switch line[0] {
	case SectionMarker:
		return lineSection, line
	case OptionMarker:
		return lineOption, line
	case ScriptMarker:
		return lineScript, line
	default:
		return lineEntry, line
	}
}

// entryURL returns the first whitespace-separated token of an entry line.
// Any further tokens are discarded.
func entryURL(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

type config struct {
	logger log.Logger
}

// BuildOption configures [Build] and its front ends.
type BuildOption func(*config)

// WithLogger sets the logger receiving per-line trace output.
// If not provided, logging is a no-op.
func WithLogger(logger log.Logger) BuildOption {
	return func(o *config) {
		o.logger = logger
	}
}

// builder is the line-driven state of a single [Build] call.
type builder struct {
	sections map[string][]Entry
	path     string  // key of the section being accumulated
	entries  []Entry // entries of the current section
	pending  []Rule  // rules not yet flushed into a synthetic entry
	logger   log.Logger
}

func newBuilder(logger log.Logger) *builder {
	return &builder{
		sections: make(map[string][]Entry),
		logger:   logger,
	}
}

// step consumes one source line.
func (b *builder) step(ctx context.Context, n int, raw string) error {
	kind, line := classify(raw)

	switch kind {
	case lineBlank:
		return nil

	case lineSection:
		b.flush()
		b.path = line
		b.entries = nil
		b.logger.TraceContext(ctx, "section", slog.Int("line", n), slog.String("path", line))

	case lineOption:
		b.pending = append(b.pending, Option(line))

	case lineScript:
		s, err := script.Parse(line)
		if err != nil {
			return pkg.WrapError(err).With(
				slog.Int("line", n),
				slog.String("text", line),
			)
		}

		b.pending = append(b.pending, Script(s))

	case lineEntry:
		url := entryURL(line)
		b.entries = append(b.entries, Entry{URL: url})
		b.logger.TraceContext(ctx, "entry", slog.Int("line", n), slog.String("url", url))
	}

	return nil
}

// flush closes the current section: pending rules become one synthetic entry
// appended after the section's URL entries, and the section replaces any
// earlier one stored under the same key.
func (b *builder) flush() {
	b.entries = append(b.entries, Entry{Rules: b.pending})
	b.sections[b.path] = b.entries
	b.pending = nil
}

// Build assembles a [Descriptor] from a sequence of descriptor lines.
//
// A read error from lines aborts with [pkg.ErrIO], and a malformed script
// aborts with [pkg.ErrMalformedScript] carrying the line number. No partial
// descriptor is returned in either case.
func Build(
	ctx context.Context,
	lines iter.Seq2[string, error],
	opts ...BuildOption,
) (*Descriptor, error) {
	var o config
	for _, opt := range opts {
		opt(&o)
	}

	b := newBuilder(o.logger)
	n := 0

	for raw, err := range lines {
		n++

		if err != nil {
			return nil, pkg.ErrIO.Wrap(err).With(slog.Int("line", n))
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := b.step(ctx, n, raw); err != nil {
			return nil, err
		}
	}

	b.flush()

	return &Descriptor{Sections: b.sections}, nil
}

// Lines returns an iterator over the lines of r without their line endings.
// A read failure is yielded once as the error of the final element.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

		for sc.Scan() {
			if !yield(sc.Text(), nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield("", err)
		}
	}
}

// ParseString builds a [Descriptor] from descriptor text.
func ParseString(ctx context.Context, s string, opts ...BuildOption) (*Descriptor, error) {
	return Build(ctx, Lines(strings.NewReader(s)), opts...)
}

// Read reads r to the end and builds a [Descriptor] from its contents.
func Read(ctx context.Context, r io.Reader, opts ...BuildOption) (*Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrIO.Wrap(err)
	}

	return Build(ctx, Lines(bytes.NewReader(data)), opts...)
}

// Load reads the descriptor file at path and builds a [Descriptor].
func Load(ctx context.Context, path string, opts ...BuildOption) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	d, err := Build(ctx, Lines(bytes.NewReader(data)), opts...)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}

	return d, nil
}
