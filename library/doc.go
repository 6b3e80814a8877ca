// Package library reads music library descriptors.
//
// A descriptor is line oriented. After stripping anything from '#' to the end
// of the line, each non-blank line is one of:
//
//	/path        starts a new section keyed by the raw line
//	-option      an opaque option line
//	$ a.b = v    a script (see package script)
//	url [...]    an entry; only the first token is kept
//
// Options and scripts accumulate until the next section header or the end of
// input, where they are attached to one synthetic entry with an empty URL
// that follows the section's URL entries. Lines before the first header belong
// to the section "". A header that repeats an earlier key replaces that
// section.
package library
