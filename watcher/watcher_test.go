package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := NewWatcher(Config{Root: root, Debounce: 50 * time.Millisecond, Logger: quietLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func nextBatch(t *testing.T, w *Watcher) Batch {
	t.Helper()
	select {
	case b, ok := <-w.Events():
		require.True(t, ok, "events channel closed")
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch")
		return Batch{}
	}
}

func noBatch(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case b := <-w.Events():
		t.Fatalf("unexpected batch: %+v", b)
	case <-time.After(300 * time.Millisecond):
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_EmitsDebouncedBatch(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	a := filepath.Join(root, "a.cellml")
	b := filepath.Join(root, "b.cellml")
	write(t, a, "<model/>")
	write(t, b, "<model/>")
	write(t, a, "<model name='a'/>")

	batch := nextBatch(t, w)
	assert.Equal(t, []string{a, b}, batch.Changed)
	assert.Empty(t, batch.Removed)
}

func TestWatcher_IgnoresUnmatchedAndHiddenFiles(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	write(t, filepath.Join(root, "annotations.ttl"), "")
	write(t, filepath.Join(root, ".annotations.ttl.tmp-1"), "")
	write(t, filepath.Join(root, ".draft.cellml"), "")

	noBatch(t, w)
}

func TestWatcher_UnchangedContentIsIgnored(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.cellml")
	write(t, path, "<model/>")
	w := startWatcher(t, root)

	write(t, path, "<model/>")
	noBatch(t, w)

	write(t, path, "<model name='x'/>")
	batch := nextBatch(t, w)
	assert.Equal(t, []string{path}, batch.Changed)
}

func TestWatcher_RemovalAndNewDirectory(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.cellml")
	write(t, path, "<model/>")
	w := startWatcher(t, root)

	require.NoError(t, os.Remove(path))
	batch := nextBatch(t, w)
	assert.Equal(t, []string{path}, batch.Removed)

	nested := filepath.Join(root, "nested", "b.cellml")
	write(t, nested, "<model/>")
	batch = nextBatch(t, w)
	assert.Equal(t, []string{nested}, batch.Changed)
}

func TestNewWatcher_Validation(t *testing.T) {
	_, err := NewWatcher(Config{})
	assert.Error(t, err)

	_, err = NewWatcher(Config{Root: t.TempDir(), Patterns: []string{"[bad"}})
	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "[bad", perr.Pattern)
}

func TestWatcher_Matches(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(Config{Root: root, Patterns: []string{"models/**/*.cellml", "*.xml"}})
	require.NoError(t, err)
	defer w.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{"models/a.cellml", true},
		{"models/deep/b.cellml", true},
		{"c.xml", true},
		{"other/c.cellml", false},
		{"models/.hidden.cellml", false},
		{"../outside.xml", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Matches(filepath.Join(root, filepath.FromSlash(tt.path))))
		})
	}
}

func TestBatch_Merge(t *testing.T) {
	first := Batch{Changed: []string{"/a", "/b"}, Removed: []string{"/c"}}
	later := Batch{Changed: []string{"/c"}, Removed: []string{"/a"}}

	merged := first.Merge(later)
	assert.Equal(t, []string{"/b", "/c"}, merged.Changed)
	assert.Equal(t, []string{"/a"}, merged.Removed)
	assert.True(t, Batch{}.Empty())
	assert.False(t, merged.Empty())
}

func TestLoop_SequentialAndCoalesced(t *testing.T) {
	events := make(chan Batch, 4)
	release := make(chan struct{})

	var mu sync.Mutex
	var runs []Batch
	running := 0
	overlapped := false

	run := func(ctx context.Context, b Batch) error {
		mu.Lock()
		running++
		if running > 1 {
			overlapped = true
		}
		runs = append(runs, b)
		first := len(runs) == 1
		mu.Unlock()

		if first {
			<-release
		}

		mu.Lock()
		running--
		mu.Unlock()
		if len(b.Changed) > 1 {
			return errors.New("failing runs do not stop the loop")
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		Loop(context.Background(), events, run, quietLogger())
		close(done)
	}()

	events <- Batch{Changed: []string{"/a"}}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(runs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Queued while the first run is blocked.
	events <- Batch{Changed: []string{"/b"}}
	events <- Batch{Changed: []string{"/c"}}
	close(release)
	close(events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not return after events closed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, overlapped)
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"/b", "/c"}, runs[1].Changed)
}

func TestLoop_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Loop(ctx, make(chan Batch), func(context.Context, Batch) error { return nil }, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
