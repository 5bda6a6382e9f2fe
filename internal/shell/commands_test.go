package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerbTable(t *testing.T) {
	want := []string{"help", "ls", "pwd", "cd", "cat", "tree", "open", "exit", "whoami", "date", "joke", "clear"}
	assert.Equal(t, want, VerbNames())

	for i, v := range Verbs() {
		assert.Equal(t, want[i], v.String())
		got, ok := ParseVerb(want[i])
		require.True(t, ok, want[i])
		assert.Equal(t, v, got)
		assert.NotNil(t, handlers[v], "handler for %s", v)
	}
}

func TestParseVerb_Unknown(t *testing.T) {
	for _, name := range []string{"", "foo", "LS", "cd ", "help!"} {
		_, ok := ParseVerb(name)
		assert.False(t, ok, "%q", name)
	}
}

func TestVerb_OutOfRange(t *testing.T) {
	assert.Equal(t, "Verb(99)", Verb(99).String())
	assert.Equal(t, CommandInfo{}, Verb(-1).Info())
}

func TestPathAwareVerbs(t *testing.T) {
	var aware []string
	for _, v := range Verbs() {
		if v.Info().PathAware {
			aware = append(aware, v.String())
		}
	}
	assert.Equal(t, []string{"cd", "cat", "open"}, aware)
}

func TestHelpLines(t *testing.T) {
	lines := HelpLines([]string{"about", "projects"})

	require.NotEmpty(t, lines)
	assert.Equal(t, "Available commands:", lines[0])
	assert.Equal(t, "Tab completion: Press Tab to autocomplete or see suggestions", lines[len(lines)-1])
	assert.Contains(t, lines, "  ls [path]"+strings.Repeat(" ", 6)+"- List files in current directory")
	assert.Contains(t, lines, strings.Repeat(" ", 19)+"Optional: specify section (about, projects)")

	// One line per verb, the sections line, a blank and the Tab hint.
	assert.Len(t, lines, 1+int(numVerbs)+1+2)
}

func TestMarkdownReference(t *testing.T) {
	md := MarkdownReference()

	assert.True(t, strings.HasPrefix(md, "# Shell commands"))
	for _, name := range VerbNames() {
		assert.Contains(t, md, "`"+name)
	}
	assert.Contains(t, md, "| `cd <dir>` | Change directory")
}
