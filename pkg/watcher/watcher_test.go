package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	w, err := New(path, 0, logrus.New())
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, path, w.Path())
	assert.True(t, w.IsChange(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.True(t, w.IsChange(fsnotify.Event{Name: path, Op: fsnotify.Create}))
	assert.False(t, w.IsChange(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.False(t, w.IsChange(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}))
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "book.yaml"), 0, logrus.New())
	require.Error(t, err)
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: A\n"), 0644))

	w, err := New(path, 50*time.Millisecond, logrus.New())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("title: B\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0644))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
