package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// start runs w in the background and returns a channel of OnChange
// batches once the watches are in place.
func start(t *testing.T, w *Watcher) <-chan []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 8)
	ready := make(chan struct{})
	w.Debounce = 50 * time.Millisecond
	w.OnChange = func(_ context.Context, files []string) { changes <- files }
	w.ready = func() { close(ready) }

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}
	return changes
}

func next(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case files := <-changes:
		return files
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o644))
}

func TestWatcher_ReportsPHPChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	changes := start(t, &Watcher{Roots: []string{dir}})

	write(t, filepath.Join(dir, "README.md"))
	target := filepath.Join(dir, "src", "a.php")
	write(t, target)

	assert.Equal(t, []string{target}, next(t, changes))
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, &Watcher{Roots: []string{dir}})

	a := filepath.Join(dir, "a.php")
	b := filepath.Join(dir, "b.php")
	write(t, a)
	write(t, b)
	write(t, a)

	assert.Equal(t, []string{a, b}, next(t, changes))
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, &Watcher{Roots: []string{dir}})

	sub := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the loop a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(sub, "c.php")
	write(t, target)

	assert.Contains(t, next(t, changes), target)
}

func TestWatcher_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "only.php")
	write(t, target)
	changes := start(t, &Watcher{Roots: []string{target}})

	write(t, filepath.Join(dir, "other.php"))
	write(t, target)

	assert.Equal(t, []string{target}, next(t, changes))
}

func TestWatcher_NewVendorAndHiddenDirectoriesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	changes := start(t, &Watcher{Roots: []string{dir}})

	for _, name := range []string{"vendor", ".cache"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}
	time.Sleep(100 * time.Millisecond)
	write(t, filepath.Join(dir, "vendor", "lib.php"))
	write(t, filepath.Join(dir, ".cache", "compiled.php"))
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(dir, "app.php")
	write(t, target)

	assert.Equal(t, []string{target}, next(t, changes))
}

func TestWanted_Extensions(t *testing.T) {
	w := &Watcher{Extensions: []string{".php", ".phtml"}, files: map[string]bool{}}
	assert.True(t, w.wanted("a/b.PHTML"))
	assert.False(t, w.wanted("a/b.js"))
}

func TestRun_MissingRoot(t *testing.T) {
	w := &Watcher{Roots: []string{filepath.Join(t.TempDir(), "missing")}}
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
