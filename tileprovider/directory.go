// Package tileprovider implements the two on-disk tile sources: a
// directory of loose tile files behind an LRU cache, and a tarball
// archive memory-mapped as a single block.
package tileprovider

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v2"

	"github.com/routetiles/graphtile/graphid"
	"github.com/routetiles/graphtile/graphtile"
	"github.com/routetiles/graphtile/spatial"
	"github.com/routetiles/graphtile/tilehierarchy"
)

// TileDoesNotExistError is returned when the requested tile has no
// backing file or archive entry.
type TileDoesNotExistError struct{ ID graphid.GraphId }

func (e *TileDoesNotExistError) Error() string {
	return fmt.Sprintf("tileprovider: tile %s does not exist", e.ID)
}

// InvalidTarballError reports a malformed tarball archive or index.
type InvalidTarballError struct{ Reason string }

func (e *InvalidTarballError) Error() string {
	return fmt.Sprintf("tileprovider: invalid tarball: %s", e.Reason)
}

// PoisonedCacheLockError indicates an internal lock was found poisoned by
// a panicking goroutine. Go's sync.Mutex has no poisoning concept, so no
// code path constructs this; it is kept for parity with the logical error
// taxonomy callers may match against.
type PoisonedCacheLockError struct{}

func (e *PoisonedCacheLockError) Error() string {
	return "tileprovider: cache lock poisoned"
}

// DirectoryProviderConfig configures a Directory provider, loadable via
// yaml.Unmarshal.
type DirectoryProviderConfig struct {
	BaseDirectory string `yaml:"base_directory"`
	CacheCapacity int    `yaml:"cache_capacity"`
}

// LoadDirectoryProviderConfig reads and parses a DirectoryProviderConfig
// from a YAML file at path.
func LoadDirectoryProviderConfig(path string) (DirectoryProviderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DirectoryProviderConfig{}, fmt.Errorf("tileprovider: read %s: %w", path, err)
	}
	var cfg DirectoryProviderConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return DirectoryProviderConfig{}, fmt.Errorf("tileprovider: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ownedTile pairs the raw bytes backing a tile with the parsed view that
// borrows from them, so the buffer is never freed out from under readers
// holding a handle.
type ownedTile struct {
	raw  []byte
	view *graphtile.View
}

// Directory is a tile provider backed by loose `.gph` files under a base
// directory, with an LRU cache of parsed tiles and a per-tile lock table
// so that concurrent readers serialize only on the tile they contend for.
type Directory struct {
	baseDir string

	cacheMu sync.Mutex
	cache   *lru.Cache[graphid.GraphId, *ownedTile]

	locksMu sync.Mutex
	locks   map[graphid.GraphId]*sync.Mutex
}

// NewDirectory constructs a Directory provider per cfg.
func NewDirectory(cfg DirectoryProviderConfig) (*Directory, error) {
	if cfg.CacheCapacity <= 0 {
		return nil, fmt.Errorf("tileprovider: cache_capacity must be positive, got %d", cfg.CacheCapacity)
	}
	cache, err := lru.New[graphid.GraphId, *ownedTile](cfg.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("tileprovider: %w", err)
	}
	return &Directory{
		baseDir: cfg.BaseDirectory,
		cache:   cache,
		locks:   make(map[graphid.GraphId]*sync.Mutex),
	}, nil
}

func (d *Directory) lockFor(base graphid.GraphId) *sync.Mutex {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	m, ok := d.locks[base]
	if !ok {
		m = &sync.Mutex{}
		d.locks[base] = m
	}
	return m
}

func (d *Directory) pathFor(base graphid.GraphId) (string, error) {
	level, ok := tilehierarchy.ByLevel(base.Level())
	if !ok {
		return "", &TileDoesNotExistError{base}
	}
	rel, err := base.FilePath("gph", level.Tiling.MaxTileID())
	if err != nil {
		return "", &TileDoesNotExistError{base}
	}
	return d.baseDir + string(os.PathSeparator) + rel, nil
}

// GetTile resolves id to the tile it belongs to, consulting the cache and
// falling back to a file read on miss.
func (d *Directory) GetTile(id graphid.GraphId) (*graphtile.View, error) {
	base := id.TileBaseID()

	lock := d.lockFor(base)
	lock.Lock()
	defer lock.Unlock()

	d.cacheMu.Lock()
	if t, ok := d.cache.Get(base); ok {
		d.cacheMu.Unlock()
		return t.view, nil
	}
	d.cacheMu.Unlock()

	path, err := d.pathFor(base)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TileDoesNotExistError{base}
		}
		return nil, fmt.Errorf("tileprovider: read %s: %w", path, err)
	}
	view, err := graphtile.Decode(raw)
	if err != nil {
		return nil, err
	}
	t := &ownedTile{raw: raw, view: view}

	d.cacheMu.Lock()
	d.cache.Add(base, t)
	d.cacheMu.Unlock()

	return view, nil
}

// WithTileContaining fetches the tile containing id and invokes f on its
// view.
func (d *Directory) WithTileContaining(id graphid.GraphId, f func(*graphtile.View) error) error {
	v, err := d.GetTile(id)
	if err != nil {
		return err
	}
	return f(v)
}

// OverwriteTile serializes a builder and atomically replaces the on-disk
// file for its tile, evicting any cached copy.
func (d *Directory) OverwriteTile(base graphid.GraphId, b *graphtile.Builder) error {
	lock := d.lockFor(base)
	lock.Lock()
	defer lock.Unlock()

	path, err := d.pathFor(base)
	if err != nil {
		return err
	}
	raw, err := b.Encode()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("tileprovider: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("tileprovider: rename %s to %s: %w", tmp, path, err)
	}

	d.cacheMu.Lock()
	d.cache.Remove(base)
	d.cacheMu.Unlock()

	return nil
}

// EnumerateTilesWithinRadius returns every tile id (across all standard
// levels) whose tile may intersect a disc of radiusMeters around center,
// restricted to tiles that actually exist under the base directory.
func (d *Directory) EnumerateTilesWithinRadius(center spatial.LatLng, radiusMeters float64) ([]graphid.GraphId, error) {
	bbox := spatial.BoundingBoxWithRadius(center, radiusMeters)

	var out []graphid.GraphId
	for _, level := range tilehierarchy.StandardLevels {
		for _, id := range spatial.TilesForBoundingBox(level, bbox) {
			path, err := d.pathFor(id)
			if err != nil {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				out = append(out, id)
			}
		}
	}
	return out, nil
}
