package vfs

import "strings"

// Root is the sentinel path of the root directory.
const Root = "~"

// Join appends name to dir.
func Join(dir, name string) string {
	if dir == "" || dir == Root {
		return Root + "/" + name
	}
	return dir + "/" + name
}

// Parent returns the parent of path. At root it returns root and false.
func Parent(path string) (string, bool) {
	if path == "" || path == Root {
		return Root, false
	}
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return Root, true
	}
	return path[:i], true
}

// Segments splits path into its components below root.
func Segments(path string) []string {
	rest := strings.TrimPrefix(path, Root)
	var out []string
	for _, s := range strings.Split(rest, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FirstSegment returns the top-level component of path, or "" for root.
func FirstSegment(path string) string {
	if segs := Segments(path); len(segs) > 0 {
		return segs[0]
	}
	return ""
}

// Resolve normalizes token against current. The result always starts at root,
// never contains "." or ".." components, and may name a node that does not exist.
func Resolve(current, token string) string {
	if current == "" {
		current = Root
	}

	switch token {
	case "", Root, "/":
		return Root
	}

	if !strings.Contains(token, "/") {
		return step(current, token)
	}

	path := current
	if strings.HasPrefix(token, "/") {
		path = Root
	}
	for _, seg := range strings.Split(token, "/") {
		if seg == "" {
			continue
		}
		path = step(path, seg)
	}
	return path
}

func step(path, seg string) string {
	switch seg {
	case ".":
		return path
	case "..":
		parent, _ := Parent(path)
		return parent
	case Root:
		return Root
	}
	return Join(path, seg)
}
