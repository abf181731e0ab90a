package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api3dao/ois/internal/fs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, w *Watcher) (<-chan Event, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	events := make(chan Event, 10)
	go func() {
		_ = w.Watch(ctx, func(e Event) { events <- e })
	}()

	select {
	case <-w.Ready:
	case <-time.After(time.Second):
		t.Fatal("watcher did not become ready in time")
	}
	return events, cancel
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
	return Event{}
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	t.Run("document in directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		w := New([]string{dir}, fs.DefaultExtensions, discardLogger())
		events, _ := startWatcher(t, w)

		doc := filepath.Join(dir, "ois.json")
		require.NoError(t, os.WriteFile(doc, []byte(`{}`), 0o600))

		assert.Equal(t, []string{doc}, waitEvent(t, events).Paths)
	})

	t.Run("burst is debounced", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		w := New([]string{dir}, fs.DefaultExtensions, discardLogger())
		events, _ := startWatcher(t, w)

		a := filepath.Join(dir, "a.yml")
		b := filepath.Join(dir, "b.json")
		require.NoError(t, os.WriteFile(b, []byte(`{}`), 0o600))
		require.NoError(t, os.WriteFile(a, []byte(`{}`), 0o600))
		require.NoError(t, os.WriteFile(b, []byte(`{"x":1}`), 0o600))

		assert.Equal(t, []string{a, b}, waitEvent(t, events).Paths)
	})

	t.Run("new subdirectory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		w := New([]string{dir}, fs.DefaultExtensions, discardLogger())
		events, _ := startWatcher(t, w)

		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))
		// Give the watcher time to add the new directory.
		time.Sleep(200 * time.Millisecond)

		doc := filepath.Join(sub, "ois.json")
		require.NoError(t, os.WriteFile(doc, []byte(`{}`), 0o600))

		assert.Contains(t, waitEvent(t, events).Paths, doc)
	})

	t.Run("single file root", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		doc := filepath.Join(dir, "ois.txt")
		require.NoError(t, os.WriteFile(doc, []byte(`{}`), 0o600))

		w := New([]string{doc}, fs.DefaultExtensions, discardLogger())
		events, _ := startWatcher(t, w)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600))
		require.NoError(t, os.WriteFile(doc, []byte(`{"x":1}`), 0o600))

		assert.Equal(t, []string{doc}, waitEvent(t, events).Paths)
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()
		w := New([]string{t.TempDir()}, fs.DefaultExtensions, discardLogger())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx, func(Event) {}) }()

		<-w.Ready
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		w := New([]string{filepath.Join(t.TempDir(), "missing")}, fs.DefaultExtensions, discardLogger())
		err := w.Watch(context.Background(), func(Event) {})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("factory error", func(t *testing.T) {
		t.Parallel()
		w := New([]string{t.TempDir()}, fs.DefaultExtensions, discardLogger())
		w.newWatcher = func() (*fsnotify.Watcher, error) {
			return nil, errors.New("factory error")
		}
		assert.EqualError(t, w.Watch(context.Background(), func(Event) {}), "factory error")
	})
}

func TestWatcher_HandleEvent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	single := filepath.Join(t.TempDir(), "single.txt")
	require.NoError(t, os.WriteFile(single, nil, 0o600))

	w := New([]string{dir, single}, []string{".json"}, discardLogger())
	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })
	for _, r := range w.roots {
		require.NoError(t, w.addRoot(fw, r))
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  string
		ok    bool
	}{
		{"write document", fsnotify.Event{Name: filepath.Join(dir, "a.json"), Op: fsnotify.Write}, filepath.Join(dir, "a.json"), true},
		{"create nested document", fsnotify.Event{Name: filepath.Join(dir, "x", "b.JSON"), Op: fsnotify.Create}, filepath.Join(dir, "x", "b.JSON"), true},
		{"remove ignored", fsnotify.Event{Name: filepath.Join(dir, "a.json"), Op: fsnotify.Remove}, "", false},
		{"chmod ignored", fsnotify.Event{Name: filepath.Join(dir, "a.json"), Op: fsnotify.Chmod}, "", false},
		{"other extension", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}, "", false},
		{"hidden file", fsnotify.Event{Name: filepath.Join(dir, ".a.json"), Op: fsnotify.Write}, "", false},
		{"outside roots", fsnotify.Event{Name: filepath.Join(filepath.Dir(single), "sibling.json"), Op: fsnotify.Write}, "", false},
		{"file root", fsnotify.Event{Name: single, Op: fsnotify.Write}, single, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.handleEvent(fw, tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatcher_Flush(t *testing.T) {
	t.Parallel()

	w := New(nil, nil, discardLogger())
	_, ok := w.flush()
	assert.False(t, ok)

	w.pending["b"] = true
	w.pending["a"] = true
	ev, ok := w.flush()
	require.True(t, ok)
	assert.Equal(t, Event{Paths: []string{"a", "b"}}, ev)
	assert.Empty(t, w.pending)
}
