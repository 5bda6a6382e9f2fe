// Package term is the interactive terminal: a bubbletea model that feeds key
// events to a shell session and renders its history log.
package term

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"termfolio/cmd/termfolio/ui"
	"termfolio/internal/shell"
)

// ContentChangedNotice is shown in the status bar after the content file changes.
const ContentChangedNotice = "content changed on disk; restart to load it"

const keyHelp = "Tab complete · Enter run · Ctrl+O visual site · Esc quit"

// ContentChangedMsg reports that the content source changed on disk.
type ContentChangedMsg struct{}

// Leave records the leave request raised by open, exit or Ctrl+O.
type Leave struct {
	section   string
	requested bool
}

// RequestLeaveShell implements shell.Host.
func (l *Leave) RequestLeaveShell(section string) {
	l.section = section
	l.requested = true
}

// Section returns the requested section and whether a leave was requested.
func (l *Leave) Section() (string, bool) {
	return l.section, l.requested
}

// Options configures the model.
type Options struct {
	Styles        ui.Styles
	ShowStatusBar bool
}

// Model is the bubbletea model for the terminal.
type Model struct {
	session *shell.Session
	leave   *Leave
	styles  ui.Styles

	input    textinput.Model
	viewport viewport.Model
	ready    bool

	width  int
	height int

	showStatus bool
	notice     string
	quitting   bool
}

// New returns a model driving session. leave must be the session's host.
func New(session *shell.Session, leave *Leave, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = session.Prompt()
	ti.PromptStyle = opts.Styles.Prompt
	ti.TextStyle = opts.Styles.Output
	ti.Focus()

	return Model{
		session:    session,
		leave:      leave,
		styles:     opts.Styles,
		input:      ti,
		showStatus: opts.ShowStatusBar,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case ContentChangedMsg:
		m.notice = ContentChangedNotice
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlO:
		// Same as minimizing: leave for the section of the current path.
		m.leave.RequestLeaveShell(shell.SectionFor(m.session.CurrentPath()))
		m.quitting = true
		return m, tea.Quit

	case tea.KeyTab:
		m.session.SetInput(m.input.Value())
		if comp := m.session.Tab(); comp.Kind == shell.CompletionReplace {
			m.input.SetValue(m.session.Input())
			m.input.CursorEnd()
		}
		m.refresh()
		return m, nil

	case tea.KeyEnter:
		line := m.input.Value()
		m.input.Reset()
		m.session.Submit(line)
		m.refresh()
		if _, ok := m.leave.Section(); ok {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize lays out header, history, divider, input and status bar.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	chrome := 3 // header, divider, input
	if m.showStatus {
		chrome++
	}
	vh := height - chrome
	if vh < 1 {
		vh = 1
	}
	vw := width
	if vw < 1 {
		vw = 1
	}

	if !m.ready {
		m.viewport = viewport.New(vw, vh)
		m.ready = true
	} else {
		m.viewport.Width = vw
		m.viewport.Height = vh
	}
	m.refresh()
	m.input.Width = max(vw-lipgloss.Width(m.input.Prompt)-1, 0)
}

// refresh re-renders the history and follows the prompt to the new path.
func (m *Model) refresh() {
	m.input.Prompt = m.session.Prompt()
	if m.ready {
		m.viewport.SetContent(m.styles.RenderHistory(m.session.History()))
		m.viewport.GotoBottom()
	}
}

// Header returns the title line: the user and the current path.
func (m Model) Header() string {
	return m.session.User() + ": " + m.session.CurrentPath()
}

// Input returns the pending input line.
func (m Model) Input() string {
	return m.input.Value()
}

// Notice returns the status bar notice, if any.
func (m Model) Notice() string {
	return m.notice
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(m.Header()))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.styles.RenderHistory(m.session.History()))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.RenderDivider(m.width))
	b.WriteString("\n")
	b.WriteString(m.input.View())

	if m.showStatus {
		status := keyHelp
		if m.notice != "" {
			status = m.styles.Notice.Render(m.notice) + "  " + status
		}
		b.WriteString("\n")
		b.WriteString(m.styles.StatusBar.Render(status))
	}
	return b.String()
}
