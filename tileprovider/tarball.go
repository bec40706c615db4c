package tileprovider

import (
	"archive/tar"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"gopkg.in/yaml.v2"

	"github.com/routetiles/graphtile/graphid"
	"github.com/routetiles/graphtile/graphtile"
)

// Mutability selects whether a Tarball-backed provider may be written to.
type Mutability string

const (
	ReadOnly Mutability = "readonly"
	Mutable  Mutability = "mutable"
)

// TarballProviderConfig configures a Tarball provider, loadable via
// yaml.Unmarshal.
type TarballProviderConfig struct {
	ArchivePath string     `yaml:"archive_path"`
	Mutability  Mutability `yaml:"mutability"`
}

// LoadTarballProviderConfig reads and parses a TarballProviderConfig from a
// YAML file at path.
func LoadTarballProviderConfig(path string) (TarballProviderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TarballProviderConfig{}, fmt.Errorf("tileprovider: read %s: %w", path, err)
	}
	var cfg TarballProviderConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return TarballProviderConfig{}, fmt.Errorf("tileprovider: parse %s: %w", path, err)
	}
	return cfg, nil
}

// indexEntrySize is the fixed on-disk size of one index.bin record.
const indexEntrySize = 16

type indexEntry struct {
	offset uint64
	index  uint32 // base graph id of the tile; its index portion must be zero
	size   uint32
}

// Tarball is a tile provider over a POSIX tar archive whose first entry is
// a fixed-layout index.bin. The archive is memory-mapped after the index
// is read, so lookups slice directly into the map rather than re-reading
// the tar stream.
type Tarball struct {
	file *os.File
	data mmap.MMap

	index map[graphid.GraphId]indexEntry
}

// OpenTarball parses cfg.ArchivePath's index.bin and memory-maps the file.
func OpenTarball(cfg TarballProviderConfig) (*Tarball, error) {
	f, err := os.Open(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("tileprovider: open %s: %w", cfg.ArchivePath, err)
	}

	tr := tar.NewReader(f)
	hdr, err := tr.Next()
	if err != nil {
		f.Close()
		return nil, &InvalidTarballError{Reason: fmt.Sprintf("reading first entry: %v", err)}
	}
	if hdr.Name != "index.bin" {
		f.Close()
		return nil, &InvalidTarballError{Reason: fmt.Sprintf("first entry is %q, want index.bin", hdr.Name)}
	}
	raw, err := io.ReadAll(tr)
	if err != nil {
		f.Close()
		return nil, &InvalidTarballError{Reason: fmt.Sprintf("reading index.bin: %v", err)}
	}

	entries, err := parseIndex(raw)
	if err != nil {
		f.Close()
		return nil, err
	}

	// The tar parser has no further use for this handle; close and reopen
	// for mmap so it isn't left holding tar-specific read state.
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("tileprovider: close %s: %w", cfg.ArchivePath, err)
	}

	prot := mmap.RDONLY
	flag := os.O_RDONLY
	if cfg.Mutability == Mutable {
		prot = mmap.RDWR
		flag = os.O_RDWR
	}
	f, err = os.OpenFile(cfg.ArchivePath, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("tileprovider: reopen %s: %w", cfg.ArchivePath, err)
	}
	data, err := mmap.Map(f, prot, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tileprovider: mmap %s: %w", cfg.ArchivePath, err)
	}

	// The 32-bit "tile_id_with_index_zero" field is the low bits of a
	// GraphId whose index is always zero: level and tile_id fit in 25 of
	// the 46 packed bits, leaving the rest unset.
	index := make(map[graphid.GraphId]indexEntry, len(entries))
	for _, e := range entries {
		id, err := graphid.TryFromID(uint64(e.index))
		if err != nil {
			data.Unmap()
			f.Close()
			return nil, &InvalidTarballError{Reason: fmt.Sprintf("invalid tile id in index: %v", err)}
		}
		if id.Index() != 0 {
			data.Unmap()
			f.Close()
			return nil, &InvalidTarballError{Reason: "index entry has a nonzero index portion"}
		}
		index[id] = e
	}

	return &Tarball{file: f, data: data, index: index}, nil
}

// parseIndex validates and decodes a raw index.bin payload.
func parseIndex(raw []byte) ([]indexEntry, error) {
	if len(raw) == 0 {
		return nil, &InvalidTarballError{Reason: "index.bin is empty"}
	}
	if len(raw)%indexEntrySize != 0 {
		return nil, &InvalidTarballError{Reason: "index.bin length is not a multiple of 16"}
	}
	count := len(raw) / indexEntrySize
	out := make([]indexEntry, count)
	for i := 0; i < count; i++ {
		rec := raw[i*indexEntrySize:]
		offset := binary.LittleEndian.Uint64(rec[0:8])
		idx := binary.LittleEndian.Uint32(rec[8:12])
		size := binary.LittleEndian.Uint32(rec[12:16])
		if offset == 0 {
			return nil, &InvalidTarballError{Reason: "index entry has zero offset"}
		}
		if offset%512 != 0 {
			return nil, &InvalidTarballError{Reason: "index entry offset is not 512-byte aligned"}
		}
		out[i] = indexEntry{offset: offset, index: idx, size: size}
	}
	return out, nil
}

// GetTile slices the tile containing id out of the memory-mapped archive
// and parses it.
func (t *Tarball) GetTile(id graphid.GraphId) (*graphtile.View, error) {
	base := id.TileBaseID()
	e, ok := t.index[base]
	if !ok {
		return nil, &TileDoesNotExistError{base}
	}
	if uint64(e.offset)+uint64(e.size) > uint64(len(t.data)) {
		return nil, &InvalidTarballError{Reason: "index entry exceeds archive length"}
	}
	raw := []byte(t.data[e.offset : e.offset+uint64(e.size)])
	return graphtile.Decode(raw)
}

// RawTile returns the raw, mmap-backed byte slice for the tile whose base
// id is id, without parsing it as a graph tile. Callers that store a
// different tile format in the same archive layout (for example live
// traffic overlays) use this instead of GetTile.
func (t *Tarball) RawTile(id graphid.GraphId) ([]byte, error) {
	base := id.TileBaseID()
	e, ok := t.index[base]
	if !ok {
		return nil, &TileDoesNotExistError{base}
	}
	if uint64(e.offset)+uint64(e.size) > uint64(len(t.data)) {
		return nil, &InvalidTarballError{Reason: "index entry exceeds archive length"}
	}
	return []byte(t.data[e.offset : e.offset+uint64(e.size)]), nil
}

// Flush persists pending writes to a mutable tarball's backing file.
func (t *Tarball) Flush() error {
	return t.data.Flush()
}

// Close unmaps and closes the archive.
func (t *Tarball) Close() error {
	if err := t.data.Unmap(); err != nil {
		return err
	}
	return t.file.Close()
}
