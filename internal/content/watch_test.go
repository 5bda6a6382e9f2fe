package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain ensures the watcher and its debounce timers leave no goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, path string) (<-chan struct{}, context.CancelFunc, <-chan error) {
	t.Helper()

	changed := make(chan struct{}, 8)
	w, err := NewWatcher(path, func() { changed <- struct{}{} })
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return changed, cancel, done
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("personal: {name: A}\n"), 0644))

	changed, cancel, done := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("personal: {name: B}\n"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0644))

	changed, cancel, done := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("y: 2\n"), 0644))

	select {
	case <-changed:
		t.Fatal("sibling write must not be reported")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "gone", "p.yaml"), func() {})
	require.Error(t, err)
}
