package vfs

import (
	"fmt"
	"strings"
)

const (
	branchMid   = "├── "
	branchLast  = "└── "
	pipeIndent  = "│   "
	blankIndent = "    "
)

// Render draws the whole tree with branch glyphs, in declared order.
func (t *Tree) Render() []string {
	root := t.Root()
	if root == nil {
		return []string{Root}
	}
	lines := []string{Root}
	return t.renderChildren(lines, root.Path, "", 20)
}

func (t *Tree) renderChildren(lines []string, path, prefix string, minWidth int) []string {
	children := t.Children(path)

	width := minWidth
	for _, c := range children {
		if w := len(displayName(c)) + 2; w > width {
			width = w
		}
	}

	for i, c := range children {
		last := i == len(children)-1
		branch, indent := branchMid, pipeIndent
		if last {
			branch, indent = branchLast, blankIndent
		}

		line := prefix + branch + displayName(c)
		if c.Label != "" {
			line = fmt.Sprintf("%s%-*s (%s)", prefix+branch, width, displayName(c), c.Label)
		}
		lines = append(lines, line)

		if c.IsDir() {
			lines = t.renderChildren(lines, c.Path, prefix+indent, 16)
		}
	}
	return lines
}

func displayName(n *Node) string {
	if n.IsDir() {
		return n.Name + "/"
	}
	return n.Name
}

// Listing renders names joined for a one-line listing, suffixing directories with "/".
func Listing(nodes []*Node) string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = displayName(n)
	}
	return strings.Join(names, "  ")
}
