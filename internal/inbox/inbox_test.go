package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string) <-chan string {
	t.Helper()
	w, err := New(WithDebounce(50 * time.Millisecond))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	paths, err := w.Watch(ctx, dir)
	require.NoError(t, err)
	return paths
}

func next(t *testing.T, paths <-chan string) string {
	t.Helper()
	select {
	case p := <-paths:
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for inbox file")
		return ""
	}
}

func TestWatchEmitsSettledFile(t *testing.T) {
	dir := t.TempDir()
	paths := startWatcher(t, dir)

	target := filepath.Join(dir, "notes.pdf")
	f, err := os.Create(target)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.WriteString("%PDF-1.4 chunk\n")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	assert.Equal(t, target, next(t, paths))
	select {
	case extra := <-paths:
		t.Fatalf("debounced writes should emit once, got extra %s", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	paths := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.zip"), []byte("PK"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Chapter.TXT"), []byte("cells"), 0o644))

	assert.Equal(t, filepath.Join(dir, "Chapter.TXT"), next(t, paths))
}

func TestWatchCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	startWatcher(t, dir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAccepts(t *testing.T) {
	w := &Watcher{extensions: []string{".pdf", ".png"}}
	assert.True(t, w.accepts("/x/a.PDF"))
	assert.True(t, w.accepts("b.png"))
	assert.False(t, w.accepts("c.jpg"))
	assert.False(t, w.accepts("/x/.d.pdf"))
}

func TestDebouncerDropsSupersededFire(t *testing.T) {
	fired := make(chan settleEvent, 4)
	d := newDebouncer(time.Millisecond, func(ev settleEvent) { fired <- ev })

	d.touch("notes.pdf")
	first := <-fired

	// A write lands after the first timer fired but before its event is handled.
	d.touch("notes.pdf")
	second := <-fired

	assert.False(t, d.settle(first), "superseded fire must not emit")
	assert.True(t, d.settle(second))
	assert.False(t, d.settle(second), "a path settles once")
}

func TestDebouncerResetsPendingTimer(t *testing.T) {
	fired := make(chan settleEvent, 4)
	d := newDebouncer(time.Hour, func(ev settleEvent) { fired <- ev })
	t.Cleanup(d.stopAll)

	d.touch("notes.pdf")
	d.touch("notes.pdf")
	require.Len(t, d.pending, 1)
	assert.Equal(t, uint64(1), d.pending["notes.pdf"].seq)

	d.cancel("notes.pdf")
	assert.Empty(t, d.pending)
	assert.Empty(t, fired)
}
