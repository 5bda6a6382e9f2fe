package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"termfolio/internal/content"
	"termfolio/internal/logging"
	"termfolio/internal/mount"
	"termfolio/internal/vfs"
)

var (
	exportOut  string
	mountDebug bool
)

// contentCmd groups content source tools
var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect and convert the portfolio content source",
}

var contentCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the content and report what the shell will see",
	Args:  cobra.NoArgs,
	RunE:  runContentCheck,
}

var contentExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the loaded content to a SQLite database",
	Long: `Writes the loaded content to a SQLite file that can be used as a content
source with --content file.db. Missing categories stay missing.`,
	Args: cobra.NoArgs,
	RunE: runContentExport,
}

// mountCmd serves the tree over FUSE
var mountCmd = &cobra.Command{
	Use:   "mount [mountpoint]",
	Short: "Mount the portfolio tree read-only",
	Long: `Serves the portfolio tree as a read-only FUSE filesystem until interrupted.

Example:
  termfolio mount /tmp/portfolio && ls /tmp/portfolio`,
	Args: cobra.ExactArgs(1),
	RunE: runMount,
}

func runContentCheck(cmd *cobra.Command, args []string) error {
	snap, tree, err := loadContent()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	source := cfg.Content.Path
	if source == "" {
		source = "(built-in sample)"
	}
	fmt.Fprintf(out, "Source: %s\n", source)
	fmt.Fprintf(out, "Owner:  %s\n", snap.OwnerName())
	fmt.Fprintf(out, "Nodes:  %d\n\n", tree.Len())

	for _, category := range content.Categories {
		if !snap.Has(category) {
			fmt.Fprintf(out, "  %-10s missing\n", category)
			continue
		}
		node, ok := tree.Lookup(vfs.Join(vfs.Root, category))
		switch {
		case !ok:
			fmt.Fprintf(out, "  %-10s missing\n", category)
		case node.IsDir():
			fmt.Fprintf(out, "  %-10s %d entries\n", category, len(node.Children))
		default:
			fmt.Fprintf(out, "  %-10s %d lines\n", category, len(node.Lines))
		}
	}

	if len(tree.Missing) == 0 && len(tree.Skipped) == 0 {
		fmt.Fprintln(out, "\nOK")
		return nil
	}
	fmt.Fprintln(out)
	for _, category := range tree.Missing {
		fmt.Fprintf(out, "Warning: category %s is missing\n", category)
	}
	for _, skipped := range tree.Skipped {
		fmt.Fprintf(out, "Warning: skipped %s\n", skipped)
	}
	return nil
}

func runContentExport(cmd *cobra.Command, args []string) error {
	snap, _, err := loadContent()
	if err != nil {
		return err
	}
	if err := content.ExportSQLite(commandContext(cmd), snap, exportOut); err != nil {
		return err
	}
	logging.Get(logging.CategoryContent).Info("content exported", zap.String("out", exportOut))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
	return nil
}

func runMount(cmd *cobra.Command, args []string) error {
	_, tree, err := loadContent()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Mounting at %s (Ctrl+C to unmount)\n", args[0])
	return serveMount(ctx, args[0], tree)
}

// serveMount is replaced in tests.
var serveMount = func(ctx context.Context, mountpoint string, tree *vfs.Tree) error {
	return mount.Serve(ctx, mountpoint, tree, mountDebug)
}
