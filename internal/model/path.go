package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a chart node by the peripheral block indices taken from the root.
// The empty path is the root.
type Path []int

func (p Path) Depth() int { return len(p) }

func (p Path) IsRoot() bool { return len(p) == 0 }

// Clone returns a copy that never aliases p's backing array.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Child returns p ++ [k] without mutating p.
func (p Path) Child(k int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, k)
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the path as dot-separated indices ("" for the root).
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = strconv.Itoa(k)
	}
	return strings.Join(parts, ".")
}

// ParsePath accepts "", "root", "/", "3.5", "3/5", "3,5" or "[3,5]".
// Range checks are left to the chart engine.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" || s == "root" || s == "/" {
		return Path{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '/' || r == ',' || r == ' '
	})
	out := make(Path, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid path component %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}
