package shell

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"termfolio/internal/vfs"
)

// DateLayout is the format of the date command.
const DateLayout = "Mon Jan 2 2006 15:04:05"

// HomeSection is the section the host shows when none can be derived.
const HomeSection = "home"

// WorkingState is the session-scoped context threaded through every handler.
type WorkingState struct {
	CurrentPath  string
	Input        string
	LastTabAt    time.Time
	LastTabInput string
}

// Patch is an optional state change returned by a handler.
type Patch struct {
	Path         *string
	ClearHistory bool
	Leave        *string // section for Host.RequestLeaveShell
}

// Result is a handler's output lines plus an optional patch.
type Result struct {
	Lines []Entry
	Patch *Patch
}

type handler func(d *Dispatcher, args []string, st WorkingState) Result

// handlers is indexed by Verb. It is kept apart from commandInfo because the
// help handler reads commandInfo.
var handlers = [numVerbs]handler{
	VerbHelp:   (*Dispatcher).help,
	VerbLs:     (*Dispatcher).ls,
	VerbPwd:    (*Dispatcher).pwd,
	VerbCd:     (*Dispatcher).cd,
	VerbCat:    (*Dispatcher).cat,
	VerbTree:   (*Dispatcher).renderTree,
	VerbOpen:   (*Dispatcher).open,
	VerbExit:   (*Dispatcher).exit,
	VerbWhoami: (*Dispatcher).whoami,
	VerbDate:   (*Dispatcher).date,
	VerbJoke:   (*Dispatcher).joke,
	VerbClear:  (*Dispatcher).clear,
}

// Dispatcher executes commands against a tree. It holds no session state.
type Dispatcher struct {
	tree *vfs.Tree
	now  func() time.Time
	intN func(n int) int
	user string
}

// NewDispatcher returns a dispatcher with the wall clock, the global random
// source and user as the whoami answer.
func NewDispatcher(tree *vfs.Tree, user string) *Dispatcher {
	return &Dispatcher{
		tree: tree,
		now:  time.Now,
		intN: rand.IntN,
		user: user,
	}
}

// Execute runs verb. It is total: every argument list yields a Result.
func (d *Dispatcher) Execute(verb Verb, args []string, st WorkingState) Result {
	if verb < 0 || verb >= numVerbs {
		return notFound(verb.String())
	}
	if st.CurrentPath == "" {
		st.CurrentPath = vfs.Root
	}
	return handlers[verb](d, args, st)
}

// Run tokenizes line and executes it. A blank line yields an empty Result.
func (d *Dispatcher) Run(line string, st WorkingState) Result {
	tokens, err := Tokenize(line)
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, ErrUnclosedQuote) && !errors.Is(err, ErrTrailingEscape) {
			msg = "invalid input"
		}
		return Result{Lines: []Entry{Error("parse error: " + msg)}}
	}
	if len(tokens) == 0 {
		return Result{}
	}

	verb, ok := ParseVerb(tokens[0])
	if !ok {
		return notFound(tokens[0])
	}
	return d.Execute(verb, tokens[1:], st)
}

func notFound(name string) Result {
	return Result{Lines: []Entry{
		Error("command not found: " + name),
		Output(`Type "help" for available commands`),
	}}
}

func (d *Dispatcher) help(_ []string, _ WorkingState) Result {
	var sections []string
	if root := d.tree.Root(); root != nil {
		sections = root.Children
	}
	return Result{Lines: outputs(HelpLines(sections)...)}
}

func (d *Dispatcher) ls(args []string, st WorkingState) Result {
	path, name := st.CurrentPath, st.CurrentPath
	if len(args) > 0 {
		path, name = vfs.Resolve(st.CurrentPath, args[0]), args[0]
	}

	n, ok := d.tree.Lookup(path)
	if !ok {
		return Result{Lines: []Entry{Error("ls: " + name + ": No such file or directory")}}
	}
	if !n.IsDir() {
		return Result{Lines: []Entry{Error("ls: " + name + ": Not a directory")}}
	}

	lines := make([]string, 0, len(n.Children)+2)
	lines = append(lines, "")
	lines = append(lines, n.Children...)
	lines = append(lines, "")
	return Result{Lines: outputs(lines...)}
}

func (d *Dispatcher) pwd(_ []string, st WorkingState) Result {
	return Result{Lines: outputs(st.CurrentPath)}
}

func (d *Dispatcher) cd(args []string, st WorkingState) Result {
	if len(args) == 0 {
		return changeDir(vfs.Root)
	}

	arg := args[0]
	name := strings.TrimRight(arg, "/")
	if name == "" {
		name = arg
	}

	if name == ".." {
		if _, ok := vfs.Parent(st.CurrentPath); !ok {
			return Result{Lines: outputs("Already at root directory")}
		}
	}

	target := vfs.Resolve(st.CurrentPath, arg)
	n, ok := d.tree.Lookup(target)
	if !ok {
		return Result{Lines: []Entry{
			Error("cd: " + name + ": No such file or directory"),
			Output(`Use "ls" to see available directories`),
		}}
	}

	if n.IsDir() {
		return changeDir(target)
	}

	// Entering a file also views it; open and completion then derive from its path.
	lines := make([]string, 0, len(n.Lines)+4)
	lines = append(lines, "Viewing: "+name, "")
	lines = append(lines, n.Lines...)
	lines = append(lines, "", `Type "cd .." to go back`)
	return Result{Lines: outputs(lines...), Patch: &Patch{Path: &target}}
}

func changeDir(path string) Result {
	return Result{
		Lines: outputs("Changed directory to " + path),
		Patch: &Patch{Path: &path},
	}
}

func (d *Dispatcher) cat(args []string, st WorkingState) Result {
	if len(args) == 0 {
		return Result{Lines: []Entry{
			Error("cat: missing file operand"),
			Output("Usage: cat <file>"),
		}}
	}

	arg := args[0]
	n, ok := d.tree.Lookup(vfs.Resolve(st.CurrentPath, arg))
	if !ok {
		return Result{Lines: []Entry{Error("cat: " + arg + ": No such file or directory")}}
	}
	if n.IsDir() {
		return Result{Lines: []Entry{Error("cat: " + arg + ": Is a directory")}}
	}

	lines := make([]string, 0, len(n.Lines)+2)
	lines = append(lines, "")
	lines = append(lines, n.Lines...)
	lines = append(lines, "")
	return Result{Lines: outputs(lines...)}
}

func (d *Dispatcher) renderTree(_ []string, _ WorkingState) Result {
	lines := d.tree.Render()
	lines = append(lines,
		"",
		`Use "cd <directory>" to navigate`,
		`Use "cat <file>" to read contents`,
		`Use "open [section]" to view in GUI`,
	)
	return Result{Lines: outputs(lines...)}
}

// SectionFor returns the section a leave request from current shows: its
// first segment, or HomeSection at root.
func SectionFor(current string) string {
	return leaveSection(nil, current)
}

// leaveSection picks the section for a leave request: the first segment of
// the argument, else of the current path, else HomeSection.
func leaveSection(args []string, current string) string {
	if len(args) > 0 {
		if s := vfs.FirstSegment(strings.TrimPrefix(args[0], vfs.Root)); s != "" {
			return s
		}
	}
	if s := vfs.FirstSegment(current); s != "" {
		return s
	}
	return HomeSection
}

func (d *Dispatcher) open(args []string, st WorkingState) Result {
	section := leaveSection(args, st.CurrentPath)
	return Result{
		Lines: outputs("Opening visual GUI at section: " + section + "..."),
		Patch: &Patch{Leave: &section},
	}
}

func (d *Dispatcher) exit(_ []string, st WorkingState) Result {
	section := leaveSection(nil, st.CurrentPath)
	return Result{
		Lines: outputs("Exiting terminal mode..."),
		Patch: &Patch{Leave: &section},
	}
}

func (d *Dispatcher) whoami(_ []string, _ WorkingState) Result {
	return Result{Lines: outputs(d.user)}
}

func (d *Dispatcher) date(_ []string, _ WorkingState) Result {
	return Result{Lines: outputs(d.now().Format(DateLayout))}
}

func (d *Dispatcher) joke(_ []string, _ WorkingState) Result {
	return Result{Lines: outputs("", jokes[d.intN(len(jokes))], "")}
}

func (d *Dispatcher) clear(_ []string, _ WorkingState) Result {
	return Result{Patch: &Patch{ClearHistory: true}}
}

var jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs!",
	"Why did the developer go broke? Because they used up all their cache.",
	"How many programmers does it take to change a light bulb? None, that's a hardware problem.",
	"Why do Java developers wear glasses? Because they don't C#.",
	"A SQL query walks into a bar, walks up to two tables and asks... 'Can I join you?'",
	"There are 10 types of people in the world: those who understand binary and those who don't.",
	"Why did the programmer quit their job? Because they didn't get arrays.",
	"What's a programmer's favorite place to hang out? The Foo Bar!",
	"Why do programmers always mix up Halloween and Christmas? Because Oct 31 == Dec 25.",
	"I would tell you a UDP joke, but you might not get it.",
	"A programmer is told: 'Get a loaf of bread. If they have eggs, get a dozen.' They come home with 12 loaves.",
	"Debugging: being the detective in a crime movie where you are also the murderer.",
}
