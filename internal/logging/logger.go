// Package logging provides config-driven categorized logging for termfolio.
// Logs go to a single file under the configured directory, one named zap
// logger per category. Logging is controlled by debug_mode: when false, every
// logger is a no-op and nothing touches the disk.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"termfolio/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config, flag handling
	CategorySession    Category = "session"    // Session lifecycle, leave requests
	CategoryShell      Category = "shell"      // Command dispatch
	CategoryCompletion Category = "completion" // Tab completion
	CategoryContent    Category = "content"    // Content loading, tree degradation
	CategoryWatch      Category = "watch"      // Content file watcher
	CategoryMount      Category = "mount"      // FUSE server
)

// FileName is the log file written under LoggingConfig.Dir.
const FileName = "termfolio.log"

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	cfg     config.LoggingConfig
	forced  bool
	loggers = make(map[Category]*zap.Logger)
	closeFn func()
)

// Initialize builds the file logger from c. With debug_mode off it resets to
// no-op loggers and creates nothing.
func Initialize(c config.LoggingConfig) error {
	l, closer, err := build(c)
	if err != nil {
		return err
	}

	mu.Lock()
	reset(l, closer)
	cfg = c
	forced = false
	mu.Unlock()

	if !c.DebugMode {
		return nil
	}

	boot := Get(CategoryBoot)
	boot.Info("logging initialized",
		zap.String("file", filepath.Join(c.Dir, FileName)),
		zap.String("level", c.Level),
		zap.String("format", c.Format))
	if len(c.Categories) == 0 {
		boot.Debug("all categories enabled")
	}
	for cat, enabled := range c.Categories {
		boot.Debug("category", zap.String("name", cat), zap.Bool("enabled", enabled))
	}
	return nil
}

func build(c config.LoggingConfig) (*zap.Logger, func(), error) {
	if !c.DebugMode {
		return zap.NewNop(), nil, nil
	}

	level := zapcore.InfoLevel
	if c.Level != "" {
		lvl, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = lvl
	}

	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	sink, closer, err := zap.Open(filepath.Join(dir, FileName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if c.Format == "console" {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, sink, level)), closer, nil
}

// Use routes every category to l regardless of debug_mode. The CLI's
// --verbose flag uses it with a development logger.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	reset(l, nil)
	forced = true
}

// reset swaps the base logger. Callers hold mu.
func reset(l *zap.Logger, closer func()) {
	_ = base.Sync()
	if closeFn != nil {
		closeFn()
	}
	base = l
	closeFn = closer
	loggers = make(map[Category]*zap.Logger)
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return forced || cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return forced || cfg.IsCategoryEnabled(string(category))
}

// Get returns the logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := base.Named(string(category))
	loggers[category] = l
	return l
}

// Sync flushes buffered entries and closes the log file.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	err := base.Sync()
	if closeFn != nil {
		closeFn()
		closeFn = nil
	}
	base = zap.NewNop()
	loggers = make(map[Category]*zap.Logger)
	return err
}

// Timer measures one operation and logs its duration on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer starts timing op.
func StartTimer(category Category, op string) *Timer {
	return &Timer{category: category, op: op, start: time.Now()}
}

// Stop logs and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("timing", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	return elapsed
}
