// Package cache stores rendered leaderboard artifacts and fetched avatar
// images.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON envelopes under a directory (default for the CLI)
//   - [RedisCache]: a shared Redis instance (for the HTTP server)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are built by a [Keyer] so that every option that changes the output
// also changes the key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry type.
const (
	TTLArtifact = 24 * time.Hour
	TTLImage    = 7 * 24 * time.Hour
)

// ArtifactKeyOpts lists every render option that affects artifact bytes.
type ArtifactKeyOpts struct {
	Format        string
	MetricLabel   string
	Title         string
	Subtitle      string
	LowerIsBetter bool
	AvatarSize    int
	ShowRank      bool
	MaxEntries    int
	Seed          uint64
	EmbedImages   bool
	PNGScale      float64
	UploadAction  string
	UpdatedAt     string
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of the table
	// identified by tableHash.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
	// ImageKey returns the key for a fetched avatar image.
	ImageKey(url string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tableHash, opts)
}

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(url string) string {
	return hashKey("image", url)
}
