package reader

import (
	"context"
	"strings"

	"github.com/packedfilearchive/pfa/shared"
)

func dirSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// TraverseFiles walks every file under the directory at root (recursively)
// and calls fn with its full path and decoded contents, depth-first: each
// directory's children are visited in catalog order, and a subdirectory's
// files are visited as soon as the subdirectory is reached.
// key is used to decrypt any encrypted file encountered; a traversal that
// reaches an encrypted file with a nil key fails with shared.ErrKeyMissing.
func (r *Reader) TraverseFiles(root string, key *[32]byte, fn func(path string, contents []byte) error) error {
	return r.TraverseFilesCancelable(context.Background(), root, key, fn)
}

// TraverseFilesCancelable is TraverseFiles with early cancellation: ctx is
// checked before visiting each directory entry.
func (r *Reader) TraverseFilesCancelable(ctx context.Context, root string, key *[32]byte, fn func(path string, contents []byte) error) error {
	idx, err := r.lookupIndex(dirSegments(root), true)
	if err != nil {
		return err
	}
	dirPath := "/" + strings.Join(dirSegments(root), "/")
	if dirPath != "/" {
		dirPath += "/"
	}
	return r.walkDir(ctx, idx, dirPath, key, fn)
}

func (r *Reader) walkDir(ctx context.Context, dirIdx int, dirPath string, key *[32]byte, fn func(string, []byte) error) error {
	e := r.catalog[dirIdx]
	runStart := dirIdx + int(e.slice.Offset)

	for j := 0; j < int(e.slice.Size); j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ci := runStart + j
		if ci >= len(r.catalog) {
			break
		}
		c := r.catalog[ci]

		if c.isDir {
			if err := r.walkDir(ctx, ci, dirPath+c.name+"/", key, fn); err != nil {
				return err
			}
			continue
		}

		full := dirPath + c.name
		raw := make([]byte, c.slice.Size)
		if _, err := r.data.ReadAt(raw, int64(c.slice.Offset)); err != nil {
			return err
		}
		contents, err := r.reverseWithCache(full, c.flag, raw, key)
		if err != nil {
			return err
		}
		if err := fn(full, contents); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) reverseWithCache(path string, flag byte, raw []byte, key *[32]byte) ([]byte, error) {
	if out, ok := r.cache.get(path, key); ok {
		return out, nil
	}
	out, err := shared.Reverse(flag, raw, key)
	if err != nil {
		return nil, err
	}
	r.cache.put(path, key, out)
	return out, nil
}
