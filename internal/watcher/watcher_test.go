package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/clientbook/internal/pubsub"
	"github.com/zjrosen/clientbook/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan pubsub.Event[string] {
	t.Helper()
	cfg := watcher.DefaultConfig(path)
	cfg.DebounceDur = 50 * time.Millisecond

	w, err := watcher.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Broker().Subscribe(ctx)
	require.NoError(t, w.Start())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return events
}

func expectEvent(t *testing.T, events <-chan pubsub.Event[string]) pubsub.Event[string] {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
		return pubsub.Event[string]{}
	}
}

func expectQuiet(t *testing.T, events <-chan pubsub.Event[string]) {
	t.Helper()
	select {
	case event := <-events:
		t.Fatalf("unexpected notification: %v", event.Type)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBurstOfWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	events := startWatcher(t, path)

	for i := range 10 {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("[%d]", i)), 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	event := expectEvent(t, events)
	require.Equal(t, pubsub.ChangedEvent, event.Type)
	require.Equal(t, path, event.Payload)
	expectQuiet(t, events)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clients.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	events := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("y"), 0o600))
	expectQuiet(t, events)
}

func TestWatcher_AtomicReplaceIsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clients.json")
	events := startWatcher(t, path)

	tmp := filepath.Join(dir, ".clients.json.tmp.1")
	require.NoError(t, os.WriteFile(tmp, []byte("[]"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	require.Equal(t, pubsub.ChangedEvent, expectEvent(t, events).Type)
}

func TestWatcher_RemoveIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	events := startWatcher(t, path)

	require.NoError(t, os.Remove(path))
	require.Equal(t, pubsub.RemovedEvent, expectEvent(t, events).Type)
}

func TestWatcher_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not", "yet", "clients.json")
	events := startWatcher(t, path)

	require.DirExists(t, filepath.Dir(path))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	require.Equal(t, pubsub.ChangedEvent, expectEvent(t, events).Type)
}

func TestWatcher_WALCompanionCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientbook.db")
	events := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path+"-wal", []byte("wal"), 0o600))
	require.Equal(t, pubsub.ChangedEvent, expectEvent(t, events).Type)
}
