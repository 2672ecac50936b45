// Package reader opens a PFA archive and resolves paths against its
// catalog, reversing the writer's compress/encrypt/ECC pipeline on read.
package reader

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/packedfilearchive/pfa/internal/codec"
	"github.com/packedfilearchive/pfa/shared"
)

type catalogEntry struct {
	name  string
	isDir bool
	flag  byte
	slice codec.CatalogSlice
}

// Reader resolves paths against an already-parsed PFA catalog. The zero
// value is not usable; construct with Open.
type Reader struct {
	name      string
	version   byte
	extraData []byte
	catalog   []catalogEntry
	data      *codec.Section

	cache *decodeCache
	index *pathIndex
}

// Open parses a PFA archive's header and catalog from r (the first size
// bytes of the underlying source) and returns a Reader ready for lookups.
// Data is read lazily, on demand, from r.
func Open(r io.ReaderAt, size int64) (*Reader, error) {
	sr := io.NewSectionReader(r, 0, size)

	var watermark [3]byte
	if _, err := io.ReadFull(sr, watermark[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBadFormat, err)
	}
	if string(watermark[:]) != "pfa" {
		return nil, fmt.Errorf("%w: bad watermark", shared.ErrBadFormat)
	}

	var version [1]byte
	if _, err := io.ReadFull(sr, version[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBadFormat, err)
	}

	name, err := codec.ReadU8String(sr)
	if err != nil {
		return nil, fmt.Errorf("%w: reading name: %v", shared.ErrBadFormat, err)
	}
	extraData, err := codec.ReadU8Bytes(sr)
	if err != nil {
		return nil, fmt.Errorf("%w: reading extra data: %v", shared.ErrBadFormat, err)
	}

	var numEntries uint64
	if err := binary.Read(sr, binary.LittleEndian, &numEntries); err != nil {
		return nil, fmt.Errorf("%w: reading catalog length: %v", shared.ErrBadFormat, err)
	}

	catalog := make([]catalogEntry, numEntries)
	for i := range catalog {
		name, isDir, flag, slice, err := codec.ReadEntry(sr)
		if err != nil {
			return nil, fmt.Errorf("%w: reading catalog entry %d: %v", shared.ErrBadFormat, i, err)
		}
		catalog[i] = catalogEntry{name: name, isDir: isDir, flag: flag, slice: slice}
	}
	if len(catalog) == 0 || !catalog[0].isDir {
		return nil, fmt.Errorf("%w: missing root catalog entry", shared.ErrBadFormat)
	}

	pos, err := sr.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	return &Reader{
		name:      name,
		version:   version[0],
		extraData: extraData,
		catalog:   catalog,
		data:      codec.DataRegion(r, pos, size-pos),
		cache:     newDecodeCache(),
	}, nil
}

// Name returns the archive's name.
func (r *Reader) Name() string { return r.name }

// Version returns the archive's format version byte.
func (r *Reader) Version() byte { return r.version }

// ExtraData returns the archive header's opaque extra-data blob.
func (r *Reader) ExtraData() []byte { return r.extraData }

// lookupIndex resolves segments (not including the implicit root) to a
// catalog index, scanning each directory's contiguous child run linearly
// the way the source reader's get_file does, bounded by that run's
// recorded size so a miss in one directory never spills into the next.
func (r *Reader) lookupIndex(segments []string, wantDir bool) (int, error) {
	idx := 0 // the synthetic root entry
	entry := r.catalog[idx]

	runStart := idx + int(entry.slice.Offset)
	runLen := int(entry.slice.Size)

	for i, seg := range segments {
		isLast := i == len(segments)-1

		found := -1
		for j := 0; j < runLen; j++ {
			cand := runStart + j
			if cand >= len(r.catalog) {
				break
			}
			if r.catalog[cand].name == seg {
				found = cand
				break
			}
		}
		if found == -1 {
			return -1, shared.ErrNotFound
		}
		entry = r.catalog[found]

		if isLast {
			if entry.isDir != wantDir {
				return -1, shared.ErrNotFound
			}
			return found, nil
		}
		if !entry.isDir {
			return -1, shared.ErrNotFound
		}
		runStart = found + int(entry.slice.Offset)
		runLen = int(entry.slice.Size)
		idx = found
	}

	if len(segments) == 0 && wantDir {
		return 0, nil
	}
	return -1, shared.ErrNotFound
}

// PathInfo is metadata about a resolved catalog entry, without reading
// file contents.
type PathInfo struct {
	IsDir bool
	// Size is the file's stored (post-transform) byte length, or a
	// directory's direct child count.
	Size uint64
}

// GetPath resolves path and reports whether it is a file or directory,
// without reading any file contents.
func (r *Reader) GetPath(path string) (PathInfo, error) {
	p := shared.NewPath(path)
	idx, err := r.lookupIndexFromIndexOrScan(p)
	if err != nil {
		return PathInfo{}, err
	}
	e := r.catalog[idx]
	return PathInfo{IsDir: e.isDir, Size: e.slice.Size}, nil
}

// GetFile reads and reverses the transform pipeline for the file at path.
// key must be non-nil iff the file was encrypted.
func (r *Reader) GetFile(path string, key *[32]byte) ([]byte, error) {
	p := shared.NewPath(path)
	if p.IsDir() {
		return nil, shared.ErrNotFound
	}
	if out, ok := r.cache.get(path, key); ok {
		return out, nil
	}

	idx, err := r.lookupIndexFromIndexOrScan(p)
	if err != nil {
		return nil, err
	}
	e := r.catalog[idx]

	raw := make([]byte, e.slice.Size)
	if _, err := r.data.ReadAt(raw, int64(e.slice.Offset)); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBadFormat, err)
	}

	out, err := shared.Reverse(e.flag, raw, key)
	if err != nil {
		return nil, err
	}
	r.cache.put(path, key, out)
	return out, nil
}

// DirEntry is one child of a directory, as returned by GetDirectory.
type DirEntry struct {
	Name  string
	IsDir bool
}

// GetDirectory lists the direct children of the directory at path.
func (r *Reader) GetDirectory(path string) ([]DirEntry, error) {
	p := shared.NewPath(path)
	if p.IsFile() {
		return nil, shared.ErrNotFound
	}
	idx, err := r.lookupIndexFromIndexOrScan(p)
	if err != nil {
		return nil, err
	}
	e := r.catalog[idx]
	runStart := idx + int(e.slice.Offset)

	out := make([]DirEntry, 0, e.slice.Size)
	for j := 0; j < int(e.slice.Size); j++ {
		c := r.catalog[runStart+j]
		out = append(out, DirEntry{Name: c.name, IsDir: c.isDir})
	}
	return out, nil
}

func (r *Reader) lookupIndexFromIndexOrScan(p shared.Path) (int, error) {
	if r.index != nil {
		if idx, ok := r.index.lookup(p.String()); ok {
			return idx, nil
		}
		return -1, shared.ErrNotFound
	}
	return r.lookupIndex(p.Segments(), p.IsDir())
}

// BuildIndex precomputes a full path -> catalog index map, so subsequent
// GetPath/GetFile/GetDirectory calls are O(1) average instead of
// re-scanning the catalog from the root every time. It changes nothing
// about the result of those calls, only their cost; the linear scan
// remains the reference algorithm whose results the index reproduces.
func (r *Reader) BuildIndex() {
	r.index = buildPathIndex(r.catalog)
}
