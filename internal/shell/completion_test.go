package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termfolio/internal/content"
	"termfolio/internal/vfs"
)

var t0 = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func newTestCompleter() *Completer {
	return NewCompleter(vfs.Build(content.Default()), 0)
}

// press simulates one Tab press on input at now, starting from clean tab memory.
func press(c *Completer, path, input string) (Completion, WorkingState) {
	return c.Complete(WorkingState{CurrentPath: path, Input: input}, t0)
}

// doublePress simulates two presses 100ms apart with no edits in between.
func doublePress(c *Completer, path, input string) Completion {
	_, st := press(c, path, input)
	comp, _ := c.Complete(st, t0.Add(100*time.Millisecond))
	return comp
}

func TestComplete_Replacements(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name  string
		path  string
		input string
		want  string
	}{
		{"single verb", "~", "wh", "whoami "},
		{"verb lcp", "~", "cl", "clear "},
		{"unique path", "~", "cd educ", "cd education "},
		{"unique file", "~", "cat ab", "cat about "},
		{"path lcp", "~", "cat projects/s", "cat projects/so"},
		{"nested unique", "~", "cat projects/sor", "cat projects/sorting-visualizer "},
		{"relative to current", "~/projects", "cat te", "cat termfolio "},
		{"parent prefix", "~/projects", "cd ../sk", "cd ../skills "},
		{"rooted prefix", "~/education", "open ~/con", "open ~/contact "},
		{"leading blanks", "~", "   pw", "pwd "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, st := press(c, tt.path, tt.input)
			require.Equal(t, CompletionReplace, comp.Kind)
			assert.Equal(t, tt.want, comp.Input)
			assert.Equal(t, tt.want, st.Input)
			assert.Equal(t, tt.input, st.LastTabInput)
			assert.Equal(t, t0, st.LastTabAt)
		})
	}
}

func TestComplete_NoCandidatesIsNoOp(t *testing.T) {
	c := newTestCompleter()

	inputs := []struct {
		path  string
		input string
	}{
		{"~", "zz"},
		{"~", "cd zz"},
		{"~", "cat projects/zz"},
		{"~", "cat about/"},
		{"~", "cat nowhere/a"},
		{"~", "date x"},
		{"~", "foo bar"},
		{"~", "   "},
		{"~", ""},
		{"~/projects/termfolio", "cat a"},
	}

	for _, in := range inputs {
		for _, double := range []bool{false, true} {
			var comp Completion
			var st WorkingState
			if double {
				comp = doublePress(c, in.path, in.input)
				if in.input != "" && in.input != "   " {
					assert.Equal(t, CompletionNone, comp.Kind, "%q double", in.input)
				}
				continue
			}
			comp, st = press(c, in.path, in.input)
			assert.Equal(t, CompletionNone, comp.Kind, "%q", in.input)
			assert.Equal(t, in.input, st.Input, "%q", in.input)
		}
	}
}

func TestComplete_AmbiguousNeedsDoublePress(t *testing.T) {
	c := newTestCompleter()

	comp, st := press(c, "~", "c")
	assert.Equal(t, CompletionNone, comp.Kind)
	assert.Equal(t, "c", st.Input)

	comp, _ = c.Complete(st, t0.Add(200*time.Millisecond))
	assert.Equal(t, Completion{Kind: CompletionList, Listing: "cd  cat  clear"}, comp)
}

func TestComplete_DoublePressListings(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name  string
		path  string
		input string
		want  string
	}{
		{"all verbs", "~", "", "help  ls  pwd  cd  cat  tree  open  exit  whoami  date  joke  clear"},
		{"root children", "~", "cd ", "about  education/  skills  projects/  contact"},
		{"lcp exhausted", "~", "cat projects/so", "solitaire  sorting-visualizer"},
		{"directory suffix", "~", "open ", "about  education/  skills  projects/  contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := doublePress(c, tt.path, tt.input)
			assert.Equal(t, Completion{Kind: CompletionList, Listing: tt.want}, comp)
		})
	}
}

func TestComplete_DoublePressWindow(t *testing.T) {
	c := NewCompleter(vfs.Build(content.Default()), 300*time.Millisecond)

	_, st := press(c, "~", "c")

	late, st2 := c.Complete(st, t0.Add(300*time.Millisecond))
	assert.Equal(t, CompletionNone, late.Kind, "window is exclusive")
	assert.Equal(t, t0.Add(300*time.Millisecond), st2.LastTabAt)

	again, _ := c.Complete(st2, t0.Add(400*time.Millisecond))
	assert.Equal(t, CompletionList, again.Kind)
}

func TestComplete_EditedInputIsNotDoublePress(t *testing.T) {
	c := newTestCompleter()

	_, st := press(c, "~", "c")
	st.Input = "ca"
	comp, st := c.Complete(st, t0.Add(50*time.Millisecond))
	assert.Equal(t, CompletionReplace, comp.Kind)
	assert.Equal(t, "cat ", st.Input)
}

func TestComplete_RepeatedDoublePressesListEachTime(t *testing.T) {
	c := newTestCompleter()
	st := WorkingState{CurrentPath: vfs.Root, Input: "c"}

	var listings int
	now := t0
	for i := 0; i < 5; i++ {
		var comp Completion
		comp, st = c.Complete(st, now)
		if comp.Kind == CompletionList {
			listings++
			assert.Equal(t, "cd  cat  clear", comp.Listing)
		}
		assert.Equal(t, "c", st.Input)
		now = now.Add(100 * time.Millisecond)
	}

	// The first press only arms the double press.
	assert.Equal(t, 4, listings)
}

func TestLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		set  []string
		want string
	}{
		{nil, ""},
		{[]string{"alone"}, "alone"},
		{[]string{"cd", "cat", "clear"}, "c"},
		{[]string{"solitaire", "sorting"}, "so"},
		{[]string{"abc", "xyz"}, ""},
		{[]string{"same", "same"}, "same"},
		{[]string{"longer", "long"}, "long"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LongestCommonPrefix(tt.set), "%q", tt.set)
	}
}

func TestCompletionKind_String(t *testing.T) {
	assert.Equal(t, "none", CompletionNone.String())
	assert.Equal(t, "replace", CompletionReplace.String())
	assert.Equal(t, "list", CompletionList.String())
}
