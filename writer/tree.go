package writer

import (
	"fmt"
	"strings"

	"github.com/packedfilearchive/pfa/internal/codec"
	"github.com/packedfilearchive/pfa/shared"
)

// node is either a *dirNode or a *fileNode.
type node interface {
	nodeName() string
}

type dirNode struct {
	name     string
	children []node
}

func (d *dirNode) nodeName() string { return d.name }

func (d *dirNode) childIndex(name string) int {
	for i, c := range d.children {
		if c.nodeName() == name {
			return i
		}
	}
	return -1
}

type fileNode struct {
	name     string
	contents []byte
	opts     shared.Options
}

func (f *fileNode) nodeName() string { return f.name }

// splitPath trims slashes and splits on "/", validating that no segment is
// empty or longer than fits in a catalog entry's fixed name field.
// codec.MaxNameBytes already leaves room for a file's trailing flag byte
// or a directory's trailing "/"; '%' is unrestricted here since diff
// archives rely on being able to store percent-escaped leaf names (see
// shared.EscapeForDiff).
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: empty path segment in %q", shared.ErrLimits, path)
		}
		if len(s) > codec.MaxNameBytes {
			return nil, fmt.Errorf("%w: segment %q exceeds %d bytes", shared.ErrLimits, s, codec.MaxNameBytes)
		}
	}
	return segments, nil
}

// mkdirAll walks segments from root, creating any directory that doesn't
// yet exist, and returns the leaf directory. It mirrors add_file's
// "auto-create missing ancestors" behavior in the source builder.
func mkdirAll(root *dirNode, segments []string) (*dirNode, error) {
	cur := root
	for _, seg := range segments {
		idx := cur.childIndex(seg)
		if idx == -1 {
			child := &dirNode{name: seg}
			cur.children = append(cur.children, child)
			cur = child
			continue
		}
		child, ok := cur.children[idx].(*dirNode)
		if !ok {
			return nil, fmt.Errorf("%w: %q exists as a file", shared.ErrTreeConflict, seg)
		}
		cur = child
	}
	return cur, nil
}
