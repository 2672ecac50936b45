package reader

import "github.com/cespare/xxhash/v2"

// pathIndex is an optional full-path -> catalog-index accelerator built
// lazily by Reader.BuildIndex. It never changes what a lookup returns,
// only how fast it is found; bucket collisions fall back to confirming
// the stored path string before trusting a hit.
type pathIndex struct {
	buckets map[uint64]indexEntry
}

type indexEntry struct {
	path string
	idx  int
}

func buildPathIndex(catalog []catalogEntry) *pathIndex {
	idx := &pathIndex{buckets: make(map[uint64]indexEntry, len(catalog))}
	idx.set("/", 0)
	idx.walk(catalog, 0, "/")
	return idx
}

func (p *pathIndex) walk(catalog []catalogEntry, dirIdx int, dirPath string) {
	e := catalog[dirIdx]
	runStart := dirIdx + int(e.slice.Offset)
	for j := 0; j < int(e.slice.Size); j++ {
		ci := runStart + j
		if ci >= len(catalog) {
			break
		}
		child := catalog[ci]
		if child.isDir {
			childPath := dirPath + child.name + "/"
			p.set(childPath, ci)
			p.walk(catalog, ci, childPath)
		} else {
			p.set(dirPath+child.name, ci)
		}
	}
}

func (p *pathIndex) set(path string, idx int) {
	p.buckets[xxhash.Sum64String(path)] = indexEntry{path: path, idx: idx}
}

func (p *pathIndex) lookup(path string) (int, bool) {
	e, ok := p.buckets[xxhash.Sum64String(path)]
	if !ok || e.path != path {
		return 0, false
	}
	return e.idx, true
}
