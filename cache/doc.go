// Package cache stores the metadata fetched for library entries.
//
// # Storage
//
// The store is a single JSON file (default: <UserCacheDir>/msc/cache.json)
// holding an array of sections:
//
//	[
//	  {"path": "/rock", "entries": [{"url": "...", "id": "...", "title": "..."}]}
//	]
//
// The file is read and rewritten wholesale. Readers take a shared advisory
// lock on "<file>.lock" and writers an exclusive one; writes go through a
// temporary file renamed into place.
package cache
