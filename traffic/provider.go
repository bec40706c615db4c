package traffic

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/aurelien-rainone/assertgo"
	"gopkg.in/yaml.v2"

	"github.com/routetiles/graphtile/graphid"
	"github.com/routetiles/graphtile/tileprovider"
)

// ProviderConfig configures a LiveProvider, loadable via yaml.Unmarshal.
type ProviderConfig struct {
	ArchivePath string                  `yaml:"archive_path"`
	Mutability  tileprovider.Mutability `yaml:"mutability"`
}

// LoadProviderConfig reads and parses a ProviderConfig from a YAML file at
// path.
func LoadProviderConfig(path string) (ProviderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("traffic: read %s: %w", path, err)
	}
	var cfg ProviderConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ProviderConfig{}, fmt.Errorf("traffic: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LiveProvider serves Speed readings out of a memory-mapped tarball of
// traffic tiles. Each record is read and written as a single atomic
// 64-bit word, so a feed overwriting one edge's reading never exposes a
// reader to a torn value. Replacing a whole tile is not provided; only
// single records are written.
type LiveProvider struct {
	archive *tileprovider.Tarball
	mutable bool
}

// OpenLiveProvider opens cfg.ArchivePath as a live-traffic tarball.
func OpenLiveProvider(cfg ProviderConfig) (*LiveProvider, error) {
	archive, err := tileprovider.OpenTarball(tileprovider.TarballProviderConfig{
		ArchivePath: cfg.ArchivePath,
		Mutability:  cfg.Mutability,
	})
	if err != nil {
		return nil, err
	}
	return &LiveProvider{archive: archive, mutable: cfg.Mutability == tileprovider.Mutable}, nil
}

// recordPointer locates the 8-byte-aligned word backing edgeIndex within
// tileID's traffic tile.
func (p *LiveProvider) recordPointer(tileID graphid.GraphId, edgeIndex uint32) (*uint64, Header, error) {
	raw, err := p.archive.RawTile(tileID)
	if err != nil {
		return nil, Header{}, err
	}
	h, err := DecodeHeader(raw)
	if err != nil {
		return nil, Header{}, err
	}
	if edgeIndex >= h.DirectedEdgeCount {
		return nil, Header{}, fmt.Errorf("traffic: edge index %d out of range for %d edges", edgeIndex, h.DirectedEdgeCount)
	}
	offset := HeaderSize + int(edgeIndex)*SpeedSize
	if offset+SpeedSize > len(raw) {
		return nil, Header{}, fmt.Errorf("traffic: record offset exceeds tile length")
	}
	ptr := unsafe.Pointer(&raw[offset])
	assert.True(uintptr(ptr)%8 == 0, "traffic record for edge %d is not 8-byte aligned", edgeIndex)
	return (*uint64)(ptr), h, nil
}

// GetSpeed atomically loads the current traffic reading for one directed
// edge within tileID.
func (p *LiveProvider) GetSpeed(tileID graphid.GraphId, edgeIndex uint32) (Speed, error) {
	ptr, _, err := p.recordPointer(tileID, edgeIndex)
	if err != nil {
		return 0, err
	}
	return Speed(atomic.LoadUint64(ptr)), nil
}

// SetSpeed atomically stores a new traffic reading for one directed edge.
// The provider must have been opened with tileprovider.Mutable.
func (p *LiveProvider) SetSpeed(tileID graphid.GraphId, edgeIndex uint32, speed Speed) error {
	if !p.mutable {
		return fmt.Errorf("traffic: provider opened read-only")
	}
	ptr, _, err := p.recordPointer(tileID, edgeIndex)
	if err != nil {
		return err
	}
	atomic.StoreUint64(ptr, uint64(speed))
	return nil
}

// LastUpdate reports when tileID's traffic tile was last refreshed by the
// feed, per the tile's header.
func (p *LiveProvider) LastUpdate(tileID graphid.GraphId) (uint64, error) {
	raw, err := p.archive.RawTile(tileID)
	if err != nil {
		return 0, err
	}
	h, err := DecodeHeader(raw)
	if err != nil {
		return 0, err
	}
	return h.LastUpdateEpochSeconds, nil
}

// Flush persists pending writes to the backing archive.
func (p *LiveProvider) Flush() error {
	return p.archive.Flush()
}

// Close unmaps and closes the archive.
func (p *LiveProvider) Close() error {
	return p.archive.Close()
}
