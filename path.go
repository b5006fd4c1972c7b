package osproto

import (
	"strconv"
	"strings"
)

// Path builds dotted field paths such as server.addresses[0].addr.
// The zero value is the root.
type Path struct {
	parts []string
}

// Root returns the empty path.
func Root() Path { return Path{} }

// Field appends an object key.
func (p Path) Field(name string) Path {
	if name == "" {
		return p
	}
	return Path{parts: append(append([]string{}, p.parts...), name)}
}

// Key appends a map key. Keys that would be ambiguous in dotted form are quoted.
func (p Path) Key(k string) Path {
	if k == "" || strings.ContainsAny(k, ".[]\"") {
		return Path{parts: append(append([]string{}, p.parts...), "["+strconv.Quote(k)+"]")}
	}
	return p.Field(k)
}

// Index appends an array index.
func (p Path) Index(i int) Path {
	return Path{parts: append(append([]string{}, p.parts...), "["+strconv.Itoa(i)+"]")}
}

// String renders the path. The root renders as "".
func (p Path) String() string {
	out := ""
	for _, part := range p.parts {
		out = JoinPath(out, part)
	}
	return out
}

// JoinPath joins a parent path and a child path rendered by Path.String.
func JoinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}
