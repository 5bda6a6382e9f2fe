package shell

import (
	"strings"
	"time"

	"termfolio/internal/vfs"
)

// DefaultDoubleTapWindow is how soon a second Tab must follow the first to list candidates.
const DefaultDoubleTapWindow = 500 * time.Millisecond

// CompletionKind says what a Tab press produced.
type CompletionKind int

const (
	CompletionNone CompletionKind = iota
	CompletionReplace
	CompletionList
)

// String returns the kind name.
func (k CompletionKind) String() string {
	switch k {
	case CompletionNone:
		return "none"
	case CompletionReplace:
		return "replace"
	case CompletionList:
		return "list"
	}
	return "unknown"
}

// Completion is the outcome of one Tab press. Input is set for
// CompletionReplace, Listing for CompletionList.
type Completion struct {
	Kind    CompletionKind
	Input   string
	Listing string
}

// Completer completes verbs and paths against a tree.
type Completer struct {
	tree   *vfs.Tree
	window time.Duration
}

// NewCompleter returns a completer. A non-positive window selects DefaultDoubleTapWindow.
func NewCompleter(tree *vfs.Tree, window time.Duration) *Completer {
	if window <= 0 {
		window = DefaultDoubleTapWindow
	}
	return &Completer{tree: tree, window: window}
}

// Window returns the double-press window.
func (c *Completer) Window() time.Duration {
	return c.window
}

// Complete handles a Tab press at now. The returned state carries the updated
// tab memory and, for a replacement, the new input.
func (c *Completer) Complete(st WorkingState, now time.Time) (Completion, WorkingState) {
	double := !st.LastTabAt.IsZero() &&
		now.Sub(st.LastTabAt) < c.window &&
		st.Input == st.LastTabInput

	st.LastTabAt = now
	st.LastTabInput = st.Input

	comp := c.complete(st, double)
	if comp.Kind == CompletionReplace {
		if comp.Input == st.Input {
			comp = Completion{}
		} else {
			st.Input = comp.Input
		}
	}
	return comp, st
}

func (c *Completer) complete(st WorkingState, double bool) Completion {
	input := strings.TrimLeft(st.Input, " \t")
	if strings.TrimSpace(input) == "" {
		if double {
			return Completion{Kind: CompletionList, Listing: strings.Join(VerbNames(), "  ")}
		}
		return Completion{}
	}

	i := strings.IndexAny(input, " \t")
	if i < 0 {
		return pick(input, "", filterPrefix(VerbNames(), input), nil, double)
	}

	verb, ok := ParseVerb(input[:i])
	if !ok || !verb.Info().PathAware {
		return Completion{}
	}
	return c.completePath(input, strings.TrimLeft(input[i+1:], " \t"), st.CurrentPath, double)
}

// completePath completes the last segment of arg, the argument text at the end
// of input.
func (c *Completer) completePath(input, arg, current string, double bool) Completion {
	dir, partial := current, arg
	if j := strings.LastIndex(arg, "/"); j >= 0 {
		dir, partial = vfs.Resolve(current, arg[:j+1]), arg[j+1:]
	}

	children := c.tree.Children(dir)
	if len(children) == 0 {
		return Completion{}
	}

	names := make([]string, 0, len(children))
	isDir := make(map[string]bool, len(children))
	for _, n := range children {
		if strings.HasPrefix(n.Name, partial) {
			names = append(names, n.Name)
			isDir[n.Name] = n.IsDir()
		}
	}

	head := input[:len(input)-len(partial)]
	return pick(partial, head, names, isDir, double)
}

// pick applies the single-match, common-prefix and double-press rules to the
// candidates for typed. head is the input text preceding typed.
func pick(typed, head string, matches []string, isDir map[string]bool, double bool) Completion {
	switch {
	case len(matches) == 0:
		return Completion{}
	case len(matches) == 1:
		return Completion{Kind: CompletionReplace, Input: head + matches[0] + " "}
	}

	if lcp := LongestCommonPrefix(matches); len(lcp) > len(typed) {
		return Completion{Kind: CompletionReplace, Input: head + lcp}
	}
	if !double {
		return Completion{}
	}

	shown := make([]string, len(matches))
	for i, m := range matches {
		shown[i] = m
		if isDir[m] {
			shown[i] += "/"
		}
	}
	return Completion{Kind: CompletionList, Listing: strings.Join(shown, "  ")}
}

func filterPrefix(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// LongestCommonPrefix returns the longest string that prefixes every member of
// set, shortening a running prefix until it fits all of them.
func LongestCommonPrefix(set []string) string {
	if len(set) == 0 {
		return ""
	}
	prefix := set[0]
	for _, s := range set[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
