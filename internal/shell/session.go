// Package shell implements the portfolio command shell: tokenizing, the verb
// dispatch table, Tab completion and the per-session history log. Everything
// here is synchronous; the host delivers one event at a time.
package shell

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"termfolio/internal/vfs"
)

// Host receives the leave-shell signal raised by open and exit.
type Host interface {
	RequestLeaveShell(section string)
}

// HostFunc adapts a function to Host.
type HostFunc func(section string)

// RequestLeaveShell calls f(section).
func (f HostFunc) RequestLeaveShell(section string) { f(section) }

// Session owns one WorkingState and one History. It is not safe for
// concurrent use.
type Session struct {
	id        string
	tree      *vfs.Tree
	dispatch  *Dispatcher
	completer *Completer
	state     WorkingState
	history   History
	host      Host
	now       func() time.Time
	banner    []string
	logger    *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithHost sets the receiver of leave requests.
func WithHost(h Host) Option {
	return func(s *Session) { s.host = h }
}

// WithClock sets the clock used by date and double-press detection.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
		s.dispatch.now = now
	}
}

// WithRand sets the source joke picks from.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.dispatch.intN = r.IntN }
}

// WithUser sets the whoami answer.
func WithUser(user string) Option {
	return func(s *Session) {
		if user != "" {
			s.dispatch.user = user
		}
	}
}

// WithDoubleTapWindow sets how soon a second Tab counts as a double press.
func WithDoubleTapWindow(d time.Duration) Option {
	return func(s *Session) { s.completer = NewCompleter(s.tree, d) }
}

// WithBanner sets the lines shown when the session starts. A nil banner shows nothing.
func WithBanner(lines []string) Option {
	return func(s *Session) { s.banner = lines }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// DefaultUser returns the whoami answer for owner: the first word of the name,
// lowercased, at "developer".
func DefaultUser(owner string) string {
	first := "guest"
	if fields := strings.Fields(owner); len(fields) > 0 {
		first = strings.ToLower(fields[0])
	}
	return first + "@developer"
}

// Banner returns the startup lines for owner.
func Banner(owner string) []string {
	if owner == "" {
		owner = "Portfolio"
	}
	return []string{
		owner + " - Portfolio Terminal",
		`Type "help" for available commands`,
		"",
	}
}

// NewSession starts a session at root. The banner, if any, is the first
// thing in the history.
func NewSession(tree *vfs.Tree, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		tree:      tree,
		dispatch:  NewDispatcher(tree, DefaultUser("")),
		completer: NewCompleter(tree, DefaultDoubleTapWindow),
		state:     WorkingState{CurrentPath: vfs.Root},
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id))

	s.history.Append(outputs(s.banner...)...)
	s.logger.Debug("session started", zap.Int("nodes", tree.Len()))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns a copy of the working state.
func (s *Session) State() WorkingState { return s.state }

// CurrentPath returns the working directory.
func (s *Session) CurrentPath() string { return s.state.CurrentPath }

// History returns the log in display order.
func (s *Session) History() []Entry { return s.history.Entries() }

// Input returns the pending input buffer.
func (s *Session) Input() string { return s.state.Input }

// SetInput replaces the pending input buffer.
func (s *Session) SetInput(input string) { s.state.Input = input }

// Prompt returns the echo prefix for the current path.
func (s *Session) Prompt() string { return s.state.CurrentPath + " $ " }

// User returns the whoami answer.
func (s *Session) User() string { return s.dispatch.user }

// Submit runs line and returns the entries it appended. A blank line is ignored.
// The input buffer is cleared either way.
func (s *Session) Submit(line string) []Entry {
	s.state.Input = ""
	if strings.TrimSpace(line) == "" {
		return nil
	}

	echo := Input(s.Prompt() + line)
	res := s.dispatch.Run(line, s.state)
	s.logger.Debug("command",
		zap.String("line", line),
		zap.String("path", s.state.CurrentPath),
		zap.Int("lines", len(res.Lines)))

	start := s.history.Len()
	s.history.Append(echo)
	s.history.Append(res.Lines...)
	return s.apply(res.Patch, start)
}

// apply applies p and returns the entries appended since start.
func (s *Session) apply(p *Patch, start int) []Entry {
	all := s.history.Entries()
	appended := all[start:]
	if p == nil {
		return appended
	}

	if p.Path != nil {
		s.logger.Debug("cd", zap.String("from", s.state.CurrentPath), zap.String("to", *p.Path))
		s.state.CurrentPath = *p.Path
	}
	if p.ClearHistory {
		s.history.Reset()
		appended = nil
	}
	if p.Leave != nil {
		s.logger.Info("leave shell", zap.String("section", *p.Leave))
		if s.host != nil {
			s.host.RequestLeaveShell(*p.Leave)
		}
	}
	return appended
}

// Tab completes the pending input. A listing is appended to the history as an
// echo of the input followed by the candidates.
func (s *Session) Tab() Completion {
	prompt := s.Prompt()
	comp, st := s.completer.Complete(s.state, s.now())
	s.state = st

	if comp.Kind == CompletionList {
		s.history.Append(Input(prompt+st.Input), Output(comp.Listing))
	}
	s.logger.Debug("tab", zap.Stringer("kind", comp.Kind), zap.String("input", st.Input))
	return comp
}
