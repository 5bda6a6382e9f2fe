package shell

import (
	"fmt"
	"strings"
)

// Verb selects a command handler.
type Verb int

const (
	VerbHelp Verb = iota
	VerbLs
	VerbPwd
	VerbCd
	VerbCat
	VerbTree
	VerbOpen
	VerbExit
	VerbWhoami
	VerbDate
	VerbJoke
	VerbClear
	numVerbs
)

// CommandInfo holds the metadata shown by help and used by completion.
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	PathAware   bool // arguments are completed as paths
}

// commandInfo is indexed by Verb; its order is the listing order.
var commandInfo = [numVerbs]CommandInfo{
	VerbHelp:   {Name: "help", Usage: "help", Description: "Show this help message"},
	VerbLs:     {Name: "ls", Usage: "ls [path]", Description: "List files in current directory"},
	VerbPwd:    {Name: "pwd", Usage: "pwd", Description: "Print working directory"},
	VerbCd:     {Name: "cd", Usage: "cd <dir>", Description: `Change directory (use ".." for parent)`, PathAware: true},
	VerbCat:    {Name: "cat", Usage: "cat <file>", Description: "Display file contents", PathAware: true},
	VerbTree:   {Name: "tree", Usage: "tree", Description: "Show directory structure"},
	VerbOpen:   {Name: "open", Usage: "open [section]", Description: "Exit terminal and view visual GUI", PathAware: true},
	VerbExit:   {Name: "exit", Usage: "exit", Description: "Exit terminal mode"},
	VerbWhoami: {Name: "whoami", Usage: "whoami", Description: "Display current user"},
	VerbDate:   {Name: "date", Usage: "date", Description: "Show current date"},
	VerbJoke:   {Name: "joke", Usage: "joke", Description: "Tell a random programming joke"},
	VerbClear:  {Name: "clear", Usage: "clear", Description: "Clear terminal"},
}

var verbByName = func() map[string]Verb {
	m := make(map[string]Verb, numVerbs)
	for v, info := range commandInfo {
		m[info.Name] = Verb(v)
	}
	return m
}()

// String returns the verb's command name.
func (v Verb) String() string {
	if v >= 0 && v < numVerbs {
		return commandInfo[v].Name
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

// Info returns the verb's metadata.
func (v Verb) Info() CommandInfo {
	if v >= 0 && v < numVerbs {
		return commandInfo[v]
	}
	return CommandInfo{}
}

// ParseVerb looks up a verb by its exact name.
func ParseVerb(name string) (Verb, bool) {
	v, ok := verbByName[name]
	return v, ok
}

// Verbs returns every verb in listing order.
func Verbs() []Verb {
	out := make([]Verb, numVerbs)
	for i := range out {
		out[i] = Verb(i)
	}
	return out
}

// VerbNames returns every command name in listing order.
func VerbNames() []string {
	out := make([]string, numVerbs)
	for i, info := range commandInfo {
		out[i] = info.Name
	}
	return out
}

// HelpLines renders the help text. sections names the categories open accepts.
func HelpLines(sections []string) []string {
	lines := []string{"Available commands:"}
	for _, v := range Verbs() {
		info := v.Info()
		lines = append(lines, fmt.Sprintf("  %-14s - %s", info.Usage, info.Description))
		if v == VerbOpen && len(sections) > 0 {
			lines = append(lines, fmt.Sprintf("  %-14s   Optional: specify section (%s)", "", strings.Join(sections, ", ")))
		}
	}
	return append(lines, "", "Tab completion: Press Tab to autocomplete or see suggestions")
}

// MarkdownReference renders the command table as a markdown document.
func MarkdownReference() string {
	var sb strings.Builder
	sb.WriteString("# Shell commands\n\n")
	sb.WriteString("| Command | Description | Tab completes paths |\n")
	sb.WriteString("|---|---|---|\n")
	for _, v := range Verbs() {
		info := v.Info()
		completes := ""
		if info.PathAware {
			completes = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", info.Usage, info.Description, completes)
	}
	sb.WriteString("\nPress **Tab** once to complete, twice quickly to list every candidate.\n")
	return sb.String()
}
