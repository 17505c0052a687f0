package accounts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath is returned for malformed account paths.
	ErrInvalidPath = errors.New("invalid account path")
	// ErrNoParent is returned when asking the root path for its parent.
	ErrNoParent = errors.New("path has no parent")
)

// Path addresses an account relative to a folder, e.g. "europe/bank".
// The zero value is the empty path, which points at the folder itself.
type Path struct {
	parts []string
}

// ParsePath parses a slash-delimited path. "" and "." are the empty path and
// a trailing slash is ignored; a leading slash is an error.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "." {
		return Path{}, nil
	}
	if strings.HasPrefix(s, "/") {
		return Path{}, fmt.Errorf("%w: do not use a / at the beginning: %q", ErrInvalidPath, s)
	}
	s = strings.TrimSuffix(s, "/")
	parts := strings.Split(s, "/")
	for _, p := range parts {
		if p == "" {
			return Path{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
		}
	}
	return Path{parts: parts}, nil
}

// MustParsePath is ParsePath for constant paths. It panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	if len(p.parts) == 0 {
		return "."
	}
	return strings.Join(p.parts, "/")
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.parts...)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.parts)
}

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.parts) == 0
}

// IsSingleton reports whether the path has exactly one segment.
func (p Path) IsSingleton() bool {
	return len(p.parts) == 1
}

// Root returns the first segment, or "" for the empty path.
func (p Path) Root() string {
	if p.IsEmpty() {
		return ""
	}
	return p.parts[0]
}

// Name returns the last segment, or "" for the empty path.
func (p Path) Name() string {
	if p.IsEmpty() {
		return ""
	}
	return p.parts[len(p.parts)-1]
}

// Parent returns all but the last segment. A singleton has the empty path as
// parent; the empty path has none.
func (p Path) Parent() (Path, error) {
	if p.IsEmpty() {
		return Path{}, ErrNoParent
	}
	return Path{parts: append([]string(nil), p.parts[:len(p.parts)-1]...)}, nil
}

// Child strips the first segment.
func (p Path) Child() Path {
	if len(p.parts) <= 1 {
		return Path{}
	}
	return Path{parts: append([]string(nil), p.parts[1:]...)}
}

// Join appends a segment, which may itself contain slashes.
func (p Path) Join(segment string) Path {
	out := append([]string(nil), p.parts...)
	for _, s := range strings.Split(segment, "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return Path{parts: out}
}

// JoinPath concatenates two non-empty paths.
func (p Path) JoinPath(other Path) (Path, error) {
	if p.IsEmpty() || other.IsEmpty() {
		return Path{}, fmt.Errorf("%w: cannot combine empty paths", ErrInvalidPath)
	}
	return Path{parts: append(append([]string(nil), p.parts...), other.parts...)}, nil
}

// Equal reports whether both paths have the same segments, case included.
func (p Path) Equal(other Path) bool {
	if len(p.parts) != len(other.parts) {
		return false
	}
	for i := range p.parts {
		if p.parts[i] != other.parts[i] {
			return false
		}
	}
	return true
}
