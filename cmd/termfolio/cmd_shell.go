package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	termui "termfolio/cmd/termfolio/term"
	"termfolio/cmd/termfolio/ui"
	"termfolio/internal/content"
	"termfolio/internal/logging"
	"termfolio/internal/shell"
)

// runShell starts the interactive terminal, or line mode when stdin or stdout
// is not a terminal.
func runShell(cmd *cobra.Command, args []string) error {
	snap, tree, err := loadContent()
	if err != nil {
		return err
	}

	leave := &termui.Leave{}
	session := newSession(snap, tree, leave, true)
	logger.Info("session started", zap.String("session", session.ID()))

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		if err := runLineMode(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), session, leave); err != nil {
			return err
		}
	} else if err := runTUI(commandContext(cmd), session, leave); err != nil {
		return err
	}

	if section, ok := leave.Section(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), leaveMessage(section))
	}
	return nil
}

// runTUI runs the bubbletea program alongside the content watcher. Either
// one finishing stops the other.
func runTUI(ctx context.Context, session *shell.Session, leave *termui.Leave) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	model := termui.New(session, leave, termui.Options{Styles: styles, ShowStatusBar: cfg.UI.ShowStatusBar})
	program := tea.NewProgram(model, tea.WithAltScreen())

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Content.Watch && cfg.Content.Path != "" {
		log := logging.Get(logging.CategoryWatch)
		g.Go(func() error {
			log.Debug("watching content", zap.String("path", cfg.Content.Path))
			err := content.Watch(gctx, cfg.Content.Path, func() {
				log.Info("content changed", zap.String("path", cfg.Content.Path))
				program.Send(termui.ContentChangedMsg{})
			})
			if err != nil {
				log.Error("watcher stopped", zap.Error(err))
			}
			return err
		})
	}

	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("terminal failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})

	return g.Wait()
}

// runLineMode reads one command per line from in until EOF or a leave request.
// Output entries go to out and Error entries to errOut. The echo is not written.
func runLineMode(in io.Reader, out, errOut io.Writer, session *shell.Session, leave *termui.Leave) error {
	writeEntries(out, errOut, session.History(), false)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		writeEntries(out, errOut, session.Submit(line), false)

		if _, ok := leave.Section(); ok {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// writeEntries prints entries, routing errors to errOut. Input echoes are
// written only when echo is set.
func writeEntries(out, errOut io.Writer, entries []shell.Entry, echo bool) {
	for _, e := range entries {
		switch e.Kind {
		case shell.EntryInput:
			if echo {
				fmt.Fprintln(out, e.Text)
			}
		case shell.EntryError:
			fmt.Fprintln(errOut, e.Text)
		default:
			fmt.Fprintln(out, e.Text)
		}
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
