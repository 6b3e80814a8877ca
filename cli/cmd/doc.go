// Package cmd implements the msc subcommands.
//
// Every command's Run method receives the shared [Globals], which carry the
// library descriptor and cache paths along with the output streams.
package cmd

var (
	// LibraryIdentifier is the kong variable identifier containing the
	// default library descriptor path.
	LibraryIdentifier = "library"

	// CacheIdentifier is the kong variable identifier containing the default
	// path of the metadata cache store.
	CacheIdentifier = "cache"
)
