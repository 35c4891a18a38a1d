package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Path addresses a node by the child index taken at each depth from the root.
// The empty path is the root.
type Path []int

func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].Clone()
}

// String renders p as dot-separated indices ("" for the root).
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, v := range prefix {
		if p[i] != v {
			return false
		}
	}
	return true
}

func (p Path) Equal(o Path) bool {
	return len(p) == len(o) && p.HasPrefix(o)
}

// lastNonZero returns the index of the deepest divergence from the mainline, or -1.
func (p Path) lastNonZero() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

var rePath = regexp.MustCompile(`^\d+(\.\d+)*$`)

// ParsePath accepts "", "0", "0.1.0" style input.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	if !rePath.MatchString(s) {
		return nil, fmt.Errorf("path must be dot-separated indices: %q", s)
	}
	parts := strings.Split(s, ".")
	p := make(Path, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("path index %q: %w", part, err)
		}
		p[i] = v
	}
	return p, nil
}

// Resolve walks path from root. The path must be valid (see ValidPath).
func Resolve(root *TreeNode, path Path) *TreeNode {
	node := root
	for _, i := range path {
		node = node.Children[i]
	}
	return node
}

func ValidPath(root *TreeNode, path Path) bool {
	node := root
	for _, i := range path {
		if node == nil || i < 0 || i >= len(node.Children) {
			return false
		}
		node = node.Children[i]
	}
	return node != nil
}

// validPrefix returns the longest prefix of path that still resolves under root.
func validPrefix(root *TreeNode, path Path) Path {
	node := root
	for k, i := range path {
		if i < 0 || i >= len(node.Children) {
			return path[:k:k].Clone()
		}
		node = node.Children[i]
	}
	return path.Clone()
}

// Line returns the nodes from root to the node at path, inclusive.
func Line(root *TreeNode, path Path) []*TreeNode {
	out := make([]*TreeNode, 0, len(path)+1)
	node := root
	out = append(out, node)
	for _, i := range path {
		node = node.Children[i]
		out = append(out, node)
	}
	return out
}

// MainlineEnd returns the path to the last node reached by always taking child 0 from root.
func MainlineEnd(root *TreeNode) Path {
	return branchEnd(root, Path{})
}

func branchEnd(root *TreeNode, from Path) Path {
	p := from.Clone()
	node := Resolve(root, p)
	for len(node.Children) > 0 {
		p = append(p, 0)
		node = node.Children[0]
	}
	return p
}
