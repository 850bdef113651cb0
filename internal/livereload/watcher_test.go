package livereload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBroadcaster struct {
	calls atomic.Int32
}

func (c *countingBroadcaster) Broadcast() int {
	c.calls.Add(1)
	return 0
}

func TestNewWatcher_Validation(t *testing.T) {
	dir := t.TempDir()
	target := &countingBroadcaster{}

	_, err := NewWatcher(dir, 0, nil)
	assert.Error(t, err)

	_, err = NewWatcher(dir, -time.Second, target)
	assert.Error(t, err)

	_, err = NewWatcher(filepath.Join(dir, "missing"), 0, target)
	assert.True(t, apperror.Is(err, apperror.KindFileSystem))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewWatcher(file, 0, target)
	assert.True(t, apperror.Is(err, apperror.KindFileSystem))
}

func TestWatcher_HandleEventWithoutDebounce(t *testing.T) {
	target := &countingBroadcaster{}
	w, err := NewWatcher(t.TempDir(), 0, target)
	require.NoError(t, err)

	w.handleEvent(fsnotify.Event{Name: "a", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "a", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "a", Op: fsnotify.Remove})
	w.handleEvent(fsnotify.Event{Name: "a", Op: fsnotify.Rename})
	w.handleEvent(fsnotify.Event{Name: "a", Op: fsnotify.Chmod})

	assert.Equal(t, int32(4), target.calls.Load())
}

func TestWatcher_HandleEventWithDebounce(t *testing.T) {
	target := &countingBroadcaster{}
	w, err := NewWatcher(t.TempDir(), 50*time.Millisecond, target)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		w.handleEvent(fsnotify.Event{Name: "a", Op: fsnotify.Write})
	}

	assert.Eventually(t, func() bool { return target.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), target.calls.Load())
}

func TestWatcher_StartObservesNestedChanges(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "hero")
	require.NoError(t, os.Mkdir(nested, 0o755))

	target := &countingBroadcaster{}
	w, err := NewWatcher(root, 0, target)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := w.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "hero.liquid"), []byte("<h1>hi</h1>"), 0o644))
	assert.Eventually(t, func() bool { return target.calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_StartWatchesDirectoriesCreatedLater(t *testing.T) {
	root := t.TempDir()
	target := &countingBroadcaster{}
	w, err := NewWatcher(root, 0, target)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = w.Start(ctx)
	require.NoError(t, err)

	fresh := filepath.Join(root, "banner")
	require.NoError(t, os.Mkdir(fresh, 0o755))
	require.Eventually(t, func() bool { return target.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	// give the loop a moment to add the new directory
	time.Sleep(100 * time.Millisecond)
	before := target.calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(fresh, "mockData.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return target.calls.Load() > before }, 2*time.Second, 10*time.Millisecond)
}
