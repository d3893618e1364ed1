// Package checksum provides content fingerprinting and the persisted
// per-target cache used to decide skip-vs-build.
package checksum

import "errors"

// Cache errors.
var (
	// ErrEntryNotFound is returned when no cache entry exists for a target.
	ErrEntryNotFound = errors.New("cache entry not found")

	// ErrEntryExpired is returned when a cache entry is older than the
	// configured maximum age.
	ErrEntryExpired = errors.New("cache entry has expired")

	// ErrEntryCorrupt is returned when a cache entry cannot be parsed.
	ErrEntryCorrupt = errors.New("cache entry is corrupt")
)
