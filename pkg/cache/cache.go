// Package cache provides byte caches for computed layouts and rendered
// artifacts, plus the key scheme shared by every backend.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
//
// All backends implement [Cache]. A miss is reported as ok == false with a
// nil error; errors are reserved for backend failures.
//
// # Keys
//
// [Keyer] derives keys from content hashes and render options, so a key
// changes whenever anything that affects the cached bytes changes:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(treeHash, cache.LayoutKeyOpts{Width: 800, Height: 320})
//
// [NewScopedKeyer] prefixes every key, which keeps several deployments apart
// in one Redis database.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	LayoutTTL   = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value for key. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the inputs besides the tree that shape a layout.
type LayoutKeyOpts struct {
	Width   float64 `json:"w"`
	Height  float64 `json:"h"`
	MarginX float64 `json:"mx"`
	MarginY float64 `json:"my"`
}

// ArtifactKeyOpts are the inputs besides the layout that shape a rendered
// artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"f"`
	Style  string  `json:"s,omitempty"`
	Focus  string  `json:"c,omitempty"` // camera focus; empty draws the whole tree
	Zoom   float64 `json:"z,omitempty"` // camera scale
	Scale  float64 `json:"r,omitempty"` // raster scale for png

	// Zoom bounds and default scale of the focused camera.
	MinZoom     float64 `json:"zl,omitempty"`
	MaxZoom     float64 `json:"zh,omitempty"`
	DefaultZoom float64 `json:"zd,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// TreeKey addresses a stored tree document by ID.
	TreeKey(treeID string) string

	// LayoutKey addresses a layout by tree content hash and options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered artifact by layout hash and options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey returns "tree:<id>".
func (DefaultKeyer) TreeKey(treeID string) string { return "tree:" + treeID }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
