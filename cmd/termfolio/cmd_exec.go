package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	termui "termfolio/cmd/termfolio/term"
	"termfolio/internal/shell"
)

var execQuiet bool

// execCmd runs command lines without a terminal
var execCmd = &cobra.Command{
	Use:   "exec [line]...",
	Short: "Run shell command lines and print the log",
	Long: `Runs each argument as one command line, in order, in a fresh session.
Prompt echoes go to stdout with the results; errors go to stderr.

Example:
  termfolio exec "cd projects" ls "cat solitaire"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

// treeCmd prints the tree rendering
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the portfolio tree",
	Args:  cobra.NoArgs,
	RunE:  runTree,
}

// commandsCmd prints the command reference
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Show the shell command reference",
	Args:  cobra.NoArgs,
	RunE:  runCommands,
}

func runExec(cmd *cobra.Command, args []string) error {
	snap, tree, err := loadContent()
	if err != nil {
		return err
	}

	leave := &termui.Leave{}
	session := newSession(snap, tree, leave, false)
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	for _, line := range args {
		writeEntries(out, errOut, session.Submit(line), !execQuiet)
		if section, ok := leave.Section(); ok {
			fmt.Fprintln(out, leaveMessage(section))
			break
		}
	}
	return nil
}

func runTree(cmd *cobra.Command, args []string) error {
	_, tree, err := loadContent()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tree.Render(), "\n"))
	return nil
}

func runCommands(cmd *cobra.Command, args []string) error {
	md := shell.MarkdownReference()
	out := cmd.OutOrStdout()

	if f, ok := out.(*os.File); !ok || !isTerminal(f) {
		fmt.Fprint(out, md)
		return nil
	}

	style := "dark"
	if cfg != nil && cfg.UI.Theme == "light" {
		style = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render command reference: %w", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}
