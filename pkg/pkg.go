//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of msc embedded at build time.
// It is printed by the CLI when users pass --version.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier used across the project, in
	// help text and in default config and cache paths.
	Name = "msc"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "music library handler and downloader"

	// LibraryFile is the default base name of a library descriptor.
	LibraryFile = "library.msc"
	// CacheFile is the default base name of the metadata cache store.
	CacheFile = "cache.json"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"EmmChriss", "emmchris@protonmail.com"},
}
