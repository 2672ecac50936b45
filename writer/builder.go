// Package writer builds a PFA archive byte-for-byte: callers assemble a
// directory tree in memory with AddDirectory/AddFile/IncludeDirectory,
// then Build serializes it.
package writer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/packedfilearchive/pfa/internal/codec"
	"github.com/packedfilearchive/pfa/shared"
)

// Builder accumulates a directory tree in memory before serializing it
// into a single PFA archive.
type Builder struct {
	name      string
	extraData []byte
	root      *dirNode
}

// NewBuilder starts a new archive with the given name (≤255 bytes).
func NewBuilder(name string) *Builder {
	return &Builder{name: name, root: &dirNode{name: ""}}
}

// SetExtraData attaches an opaque blob (≤255 bytes) to the archive header.
func (b *Builder) SetExtraData(data []byte) error {
	if len(data) > 255 {
		return fmt.Errorf("%w: extra data of length %d exceeds 255 bytes", shared.ErrLimits, len(data))
	}
	b.extraData = data
	return nil
}

// AddDirectory ensures path exists as a directory, creating any missing
// ancestors. It is idempotent: adding the same directory twice is a no-op.
func (b *Builder) AddDirectory(path string) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	_, err = mkdirAll(b.root, segments)
	return err
}

// AddFile creates (or overwrites) a file at path, creating any missing
// ancestor directories. opts configures the per-file transform pipeline.
func (b *Builder) AddFile(path string, contents []byte, opts shared.Options) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("%w: cannot add a file at the archive root", shared.ErrLimits)
	}
	parent, err := mkdirAll(b.root, segments[:len(segments)-1])
	if err != nil {
		return err
	}
	name := segments[len(segments)-1]
	if idx := parent.childIndex(name); idx != -1 {
		if _, ok := parent.children[idx].(*dirNode); ok {
			return fmt.Errorf("%w: %q exists as a directory", shared.ErrTreeConflict, name)
		}
		parent.children[idx] = &fileNode{name: name, contents: contents, opts: opts}
		return nil
	}
	parent.children = append(parent.children, &fileNode{name: name, contents: contents, opts: opts})
	return nil
}

// IncludeDirectory walks a filesystem directory and adds every file found
// under destPath, skipping any path matching one of the doublestar glob
// patterns in ignore.
func (b *Builder) IncludeDirectory(fsPath, destPath string, opts shared.Options, ignore []string) error {
	return filepath.WalkDir(fsPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(fsPath, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range ignore {
			if matched, _ := doublestar.Match(pattern, rel); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		archivePath := destPath + "/" + rel
		if d.IsDir() {
			return b.AddDirectory(archivePath)
		}
		contents, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return b.AddFile(archivePath, contents, opts)
	})
}

// Build serializes the accumulated tree into a PFA archive.
//
// It flattens the tree breadth-first (root first, then each directory's
// children in the order they were added), the same fixup-over-a-flat-slice
// shape as internal/fskeleton.Make, except that here every offset is known
// before any bytes are written, so the whole archive is produced in a
// single forward pass with no backpatching.
func (b *Builder) Build() ([]byte, error) {
	list := []node{b.root}
	first := []int{0}
	count := []int{0}

	for i := 0; i < len(list); i++ {
		dir, ok := list[i].(*dirNode)
		if !ok {
			continue
		}
		first[i] = len(list)
		count[i] = len(dir.children)
		for _, c := range dir.children {
			list = append(list, c)
			first = append(first, 0)
			count = append(count, 0)
		}
	}

	type resolvedEntry struct {
		name  string
		isDir bool
		flag  byte
		slice codec.CatalogSlice
	}
	entries := make([]resolvedEntry, len(list))
	var data []byte

	for i, n := range list {
		switch v := n.(type) {
		case *dirNode:
			entries[i] = resolvedEntry{
				name:  v.name,
				isDir: true,
				slice: codec.CatalogSlice{Size: uint64(count[i]), Offset: uint64(first[i] - i)},
			}
		case *fileNode:
			payload, flag, err := shared.Transform(v.contents, v.opts)
			if err != nil {
				return nil, fmt.Errorf("pfa: encoding file %q: %w", v.name, err)
			}
			offset := uint64(len(data))
			data = append(data, payload...)
			entries[i] = resolvedEntry{
				name:  v.name,
				flag:  flag,
				slice: codec.CatalogSlice{Size: uint64(len(payload)), Offset: offset},
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("pfa")
	buf.WriteByte(1) // format version
	if err := codec.WriteU8String(&buf, b.name); err != nil {
		return nil, err
	}
	if err := codec.WriteU8Bytes(&buf, b.extraData); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(list))); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := codec.WriteEntry(&buf, e.name, e.isDir, e.flag, e.slice); err != nil {
			return nil, err
		}
	}
	buf.Write(data)
	return buf.Bytes(), nil
}
