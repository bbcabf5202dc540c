// Package crosswalk loads the external-to-canonical identifier table.
//
// Loader fetches the table over HTTP with a per-attempt timeout and paced
// retries, and keeps the last good payload on disk when a cache path is
// configured. CacheLoader reads that payload back for offline runs. Both
// parse with ParseCrosswalk.
package crosswalk
