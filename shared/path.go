package shared

import "strings"

// Path is a sequence of non-empty name segments. A trailing empty segment
// means the path denotes a directory; its absence means a file.
type Path struct {
	segments []string
}

// NewPath parses a "/"-joined path. A leading "/" is conventional and
// stripped; a trailing "/" (or an empty string) marks a directory.
func NewPath(s string) Path {
	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return Path{segments: []string{""}}
	}
	return Path{segments: strings.Split(s, "/")}
}

// IsDir reports whether the path denotes a directory.
func (p Path) IsDir() bool {
	return len(p.segments) > 0 && p.segments[len(p.segments)-1] == ""
}

// IsFile reports whether the path denotes a file.
func (p Path) IsFile() bool { return !p.IsDir() }

// Segments returns the path's non-trailing-empty segments, in order.
func (p Path) Segments() []string {
	if p.IsDir() && len(p.segments) > 0 {
		return p.segments[:len(p.segments)-1]
	}
	return p.segments
}

// Name returns the last non-empty segment: the file's own name, or a
// directory's own name (not its parent's).
func (p Path) Name() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Parent returns the directory path containing p, and false if dropping
// p's last segment leaves nothing (p is the root or a top-level entry).
func (p Path) Parent() (Path, bool) {
	segs := p.Segments()
	if len(segs) <= 1 {
		return Path{}, false
	}
	parent := make([]string, len(segs))
	copy(parent, segs[:len(segs)-1])
	parent[len(parent)-1] = ""
	return Path{segments: parent}, true
}

// Append joins suffix onto a directory path, replacing its trailing empty
// segment. It panics if p is not a directory — callers are expected to
// check IsDir first, mirroring the source's "append is only valid on a
// directory" invariant.
func (p Path) Append(suffix Path) Path {
	if !p.IsDir() {
		panic("pfa: Append called on a non-directory path")
	}
	base := p.segments[:len(p.segments)-1]
	combined := make([]string, 0, len(base)+len(suffix.segments))
	combined = append(combined, base...)
	combined = append(combined, suffix.segments...)
	return Path{segments: combined}
}

// String renders the path with "/" separators and a leading "/",
// directories thus rendering with a trailing "/".
func (p Path) String() string {
	return "/" + strings.Join(p.segments, "/")
}

// EscapeForDiff percent-encodes "%" and "/" so a path can be flattened
// into a single diff-archive leaf name without colliding with either the
// archive's own "/" segment separator or the escape marker itself. "%"
// is escaped first so a literal "%" in the original path round-trips
// instead of being mistaken for part of an escape sequence produced by
// escaping "/".
func EscapeForDiff(path string) string {
	path = strings.ReplaceAll(path, "%", "%25")
	return strings.ReplaceAll(path, "/", "%2f")
}

// UnescapeFromDiff reverses EscapeForDiff, undoing "%2f" before "%25" so
// a "%" produced by undoing "%25" is never read as the start of a "%2f".
func UnescapeFromDiff(name string) string {
	name = strings.ReplaceAll(name, "%2f", "/")
	return strings.ReplaceAll(name, "%25", "%")
}
