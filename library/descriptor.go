package library

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/EmmChriss/msc/script"
)

// Descriptor maps section path keys to their ordered entries.
// A Descriptor is read-only once built and safe for concurrent reads.
type Descriptor struct {
	Sections map[string][]Entry
}

// Entry is one library item, or a synthetic carrier (empty URL) for the
// rules declared in a section.
type Entry struct {
	URL   string
	Rules []Rule
}

// RuleKind identifies the variant held by a [Rule].
type RuleKind int

const (
	// RuleOption is an opaque option line kept verbatim.
	RuleOption RuleKind = iota
	// RuleScript is a parsed script line.
	RuleScript
)

// String returns the name of the kind.
func (k RuleKind) String() string {
	switch k {
	case RuleOption:
		return "option"
	case RuleScript:
		return "script"
	default:
		return "unknown"
	}
}

// Rule is an option or a script attached to an entry.
type Rule struct {
	Kind   RuleKind
	Option string         // RuleOption: the whole source line, marker included
	Script *script.Script // RuleScript
}

// Option returns an option rule.
func Option(line string) Rule { return Rule{Kind: RuleOption, Option: line} }

// Script returns a script rule.
func Script(s *script.Script) Rule { return Rule{Kind: RuleScript, Script: s} }

// IsSynthetic reports whether e only carries section rules.
func (e Entry) IsSynthetic() bool { return e.URL == "" }

// Paths returns the section path keys in sorted order.
func (d *Descriptor) Paths() []string {
	return slices.Sorted(maps.Keys(d.Sections))
}

// Section returns the entries stored under path.
func (d *Descriptor) Section(path string) ([]Entry, bool) {
	entries, ok := d.Sections[path]

	return entries, ok
}

// All returns an iterator over every entry, sections in sorted path order and
// entries in source order.
func (d *Descriptor) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, path := range d.Paths() {
			for _, e := range d.Sections[path] {
				if !yield(path, e) {
					return
				}
			}
		}
	}
}

// URLs returns the URLs of the non-synthetic entries under path.
func (d *Descriptor) URLs(path string) []string {
	var urls []string

	for _, e := range d.Sections[path] {
		if !e.IsSynthetic() {
			urls = append(urls, e.URL)
		}
	}

	return urls
}

// Scripts returns the scripts declared under path, in source order.
func (d *Descriptor) Scripts(path string) []*script.Script {
	var scripts []*script.Script

	for _, e := range d.Sections[path] {
		for _, r := range e.Rules {
			if r.Kind == RuleScript {
				scripts = append(scripts, r.Script)
			}
		}
	}

	return scripts
}

// Options returns the option lines declared under path, in source order.
func (d *Descriptor) Options(path string) []string {
	var opts []string

	for _, e := range d.Sections[path] {
		for _, r := range e.Rules {
			if r.Kind == RuleOption {
				opts = append(opts, r.Option)
			}
		}
	}

	return opts
}

// Len returns the total number of entries, synthetic ones included.
func (d *Descriptor) Len() int {
	n := 0
	for _, entries := range d.Sections {
		n += len(entries)
	}

	return n
}

// section is the encoded form of one section.
type section struct {
	Path    string  `json:"path"    yaml:"path"`
	Entries []entry `json:"entries" yaml:"entries"`
}

type entry struct {
	URL   string `json:"url"             yaml:"url"`
	Rules []rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

type rule struct {
	Option string `json:"option,omitempty" yaml:"option,omitempty"`
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
}

func (d *Descriptor) encoded() []section {
	out := make([]section, 0, len(d.Sections))

	for _, path := range d.Paths() {
		s := section{Path: path, Entries: make([]entry, 0, len(d.Sections[path]))}

		for _, e := range d.Sections[path] {
			enc := entry{URL: e.URL}

			for _, r := range e.Rules {
				if r.Kind == RuleScript {
					enc.Rules = append(enc.Rules, rule{Script: r.Script.String()})
				} else {
					enc.Rules = append(enc.Rules, rule{Option: r.Option})
				}
			}

			s.Entries = append(s.Entries, enc)
		}

		out = append(out, s)
	}

	return out
}

// MarshalJSON implements json.Marshaler as an array of sections in sorted
// path order.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.encoded())
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (d *Descriptor) MarshalYAML() (any, error) {
	return d.encoded(), nil
}

var _ yaml.InterfaceMarshaler = (*Descriptor)(nil)
