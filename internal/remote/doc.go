// Package remote downloads images over HTTP into a local cache. Fetched
// resources are checksummed and recorded in a SQLite index so repeat fetches
// are served from disk, and concurrent fetchers are serialized with a file
// lock on the cache directory.
package remote
