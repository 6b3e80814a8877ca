package library

import (
	"slices"
	"strings"
)

// Document is an editable descriptor source. Edits operate on lines so that
// comments, rules, and layout outside the touched lines are preserved.
type Document struct {
	lines []string
}

// NewDocument splits descriptor text into an editable [Document].
func NewDocument(src string) *Document {
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return &Document{}
	}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return &Document{lines: lines}
}

// String returns the document text with a trailing newline.
func (d *Document) String() string {
	if len(d.lines) == 0 {
		return ""
	}

	return strings.Join(d.lines, "\n") + "\n"
}

// Sections returns the section keys in the order their headers appear.
func (d *Document) Sections() []string {
	var keys []string

	for _, raw := range d.lines {
		if kind, line := classify(raw); kind == lineSection {
			keys = append(keys, line)
		}
	}

	return keys
}

// LastSection returns the key of the last section header, or "" when the
// document has none.
func (d *Document) LastSection() string {
	keys := d.Sections()
	if len(keys) == 0 {
		return ""
	}

	return keys[len(keys)-1]
}

// IsSection reports whether s is usable as a section header line: it starts
// with [SectionMarker] and holds no comment.
func IsSection(s string) bool {
	kind, line := classify(s)

	return kind == lineSection && line == s
}

// Add inserts an entry line into section, after the last non-blank line
// belonging to it. A section missing from the document is appended with a new
// header, so a section other than "" must satisfy [IsSection]. Add reports
// whether the section had to be created.
func (d *Document) Add(section, entry string) bool {
	start, end, ok := d.bounds(section)
	if !ok {
		if n := len(d.lines); n > 0 && strings.TrimSpace(d.lines[n-1]) != "" {
			d.lines = append(d.lines, "")
		}

		d.lines = append(d.lines, section, entry)

		return true
	}

	at := start
	for i := start; i < end; i++ {
		if kind, _ := classify(d.lines[i]); kind != lineBlank {
			at = i + 1
		}
	}

	d.lines = slices.Insert(d.lines, at, entry)

	return false
}

// Remove deletes every entry line whose URL equals url and returns how many
// lines were removed.
func (d *Document) Remove(url string) int {
	kept := d.lines[:0]
	removed := 0

	for _, raw := range d.lines {
		if kind, line := classify(raw); kind == lineEntry && entryURL(line) == url {
			removed++

			continue
		}

		kept = append(kept, raw)
	}

	d.lines = kept

	return removed
}

// bounds returns the line range [start, end) holding the body of the last
// occurrence of section, which is the occurrence a [Descriptor] keeps. The
// unnamed leading section "" starts at the first line.
func (d *Document) bounds(section string) (int, int, bool) {
	start, found := 0, section == ""

	for i, raw := range d.lines {
		if kind, line := classify(raw); kind == lineSection && line == section {
			start, found = i+1, true
		}
	}

	if !found {
		return 0, 0, false
	}

	end := len(d.lines)

	for i := start; i < len(d.lines); i++ {
		if kind, _ := classify(d.lines[i]); kind == lineSection {
			end = i

			break
		}
	}

	return start, end, true
}
