package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"termfolio/internal/config"
	"termfolio/internal/content"
	"termfolio/internal/logging"
	"termfolio/internal/shell"
	"termfolio/internal/vfs"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	contentPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "termfolio",
	Short: "termfolio - a portfolio you can cd into",
	Long: `termfolio presents a developer portfolio as a small read-only filesystem
and a shell to explore it: ls, cd, cat, tree, with Tab completion.

Run without arguments to start the interactive terminal. When stdin is not a
terminal, commands are read one per line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if contentPath != "" {
			cfg.Content.Path = contentPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if verbose {
			zc := zap.NewDevelopmentConfig()
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			l, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logging.Use(l)
		} else if err := logging.Initialize(cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Get(logging.CategoryBoot)
		logger.Debug("config loaded", zap.String("path", configPath), zap.String("content", cfg.Content.Path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: runShell,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "Content file (.yaml, .json or .db); default is the built-in sample")

	execCmd.Flags().BoolVar(&execQuiet, "quiet", false, "Print command results only, without the prompt echo")
	contentExportCmd.Flags().StringVar(&exportOut, "out", "", "SQLite file to write (required)")
	_ = contentExportCmd.MarkFlagRequired("out")
	mountCmd.Flags().BoolVar(&mountDebug, "debug", false, "Log FUSE requests")

	contentCmd.AddCommand(contentCheckCmd)
	contentCmd.AddCommand(contentExportCmd)

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(mountCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContent reads the configured content source and builds the tree,
// logging any degradation.
func loadContent() (*content.Snapshot, *vfs.Tree, error) {
	timer := logging.StartTimer(logging.CategoryContent, "load")
	defer timer.Stop()

	snap, err := content.Load(cfg.Content.Path, cfg.Content.Format)
	if err != nil {
		return nil, nil, err
	}
	tree := vfs.Build(snap)

	log := logging.Get(logging.CategoryContent)
	for _, category := range tree.Missing {
		log.Warn("category missing", zap.String("category", category))
	}
	for _, skipped := range tree.Skipped {
		log.Warn("record skipped", zap.String("reason", skipped))
	}
	log.Info("content loaded", zap.String("path", cfg.Content.Path), zap.Int("nodes", tree.Len()))
	return snap, tree, nil
}

// newSession starts a session configured from cfg. A nil host ignores leave requests.
func newSession(snap *content.Snapshot, tree *vfs.Tree, host shell.Host, banner bool) *shell.Session {
	user := cfg.Shell.User
	if user == "" {
		user = shell.DefaultUser(snap.OwnerName())
	}

	opts := []shell.Option{
		shell.WithUser(user),
		shell.WithDoubleTapWindow(cfg.GetDoubleTapWindow()),
		shell.WithLogger(logging.Get(logging.CategorySession)),
	}
	if host != nil {
		opts = append(opts, shell.WithHost(host))
	}
	if banner && cfg.Shell.Banner {
		opts = append(opts, shell.WithBanner(shell.Banner(snap.OwnerName())))
	}
	return shell.NewSession(tree, opts...)
}

// leaveMessage is printed after the shell hands over to the visual site.
func leaveMessage(section string) string {
	return "Leaving shell, visual section: " + cfg.SectionURL(section)
}
