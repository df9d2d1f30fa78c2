// Package cache stores rendered diagrams between runs.
//
// A Cache is a byte store with per-entry expiry. Three backends are provided:
// NullCache never stores anything, FileCache keeps snappy-compressed entries
// under a directory for the CLI, and RedisCache shares entries between serve
// instances. Keys are derived from the hash of the input document and the
// render options by a Keyer, so any change to either misses.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLOverview = 24 * time.Hour
)

// Cache is a byte store with expiry. Get reports a miss with hit == false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts holds the render options that change an SVG.
type ArtifactKeyOpts struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	LOD           string  `json:"lod"`
	EdgeAnimation string  `json:"edge_animation"`
	NoFont        bool    `json:"no_font"`
	Tooltips      bool    `json:"tooltips"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey is the key of the SVG rendered from the document with
	// hash docHash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
	// OverviewKey is the key of the graph overview in the given format.
	OverviewKey(docHash, format string) string
}

// DefaultKeyer produces "svg:<sha256>" and "overview:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes docHash together with opts.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("svg", docHash, opts)
}

// OverviewKey hashes docHash together with format.
func (DefaultKeyer) OverviewKey(docHash, format string) string {
	return hashKey("overview", docHash, format)
}
