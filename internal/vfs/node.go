// Package vfs is the read-only virtual filesystem the shell navigates: a flat
// path-to-node map built once from a content snapshot, and the resolver that
// normalizes path tokens against a current directory.
package vfs

// Kind distinguishes directories from files.
type Kind int

const (
	KindDir Kind = iota
	KindFile
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Node is one filesystem entry. Nodes are immutable once built.
type Node struct {
	Path     string
	Name     string
	Kind     Kind
	Children []string // directories only, in declared order
	Lines    []string // files only
	Label    string   // short annotation shown by tree
}

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool {
	return n != nil && n.Kind == KindDir
}

// Tree is the complete node set. Missing and Skipped record how the build
// degraded when the content source was incomplete.
type Tree struct {
	nodes   map[string]*Node
	Missing []string
	Skipped []string
}

// Lookup returns the node at path.
func (t *Tree) Lookup(path string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[path]
	return n, ok
}

// Root returns the root directory. It always exists.
func (t *Tree) Root() *Node {
	n, _ := t.Lookup(Root)
	return n
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Children returns the child nodes of the directory at path, in declared order.
// It returns nil for files and absent paths.
func (t *Tree) Children(path string) []*Node {
	n, ok := t.Lookup(path)
	if !ok || !n.IsDir() {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, name := range n.Children {
		if c, ok := t.Lookup(Join(path, name)); ok {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits every node depth-first in declared order, starting at root.
func (t *Tree) Walk(fn func(n *Node)) {
	var visit func(n *Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range t.Children(n.Path) {
			visit(c)
		}
	}
	if root := t.Root(); root != nil {
		visit(root)
	}
}

func (t *Tree) add(n *Node) {
	t.nodes[n.Path] = n
}
