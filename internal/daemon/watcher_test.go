package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTreeWatcherDebouncesBurst(t *testing.T) {
	root := t.TempDir()
	trigger := make(chan string, 1)

	tw, err := NewTreeWatcher(root, 100*time.Millisecond, trigger)
	require.NoError(t, err)
	defer tw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tw.Start(ctx)

	// A burst of writes must collapse into one trigger.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case reason := <-trigger:
		require.Equal(t, "watch", reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a trigger after debounce window")
	}

	// No second trigger without further events.
	select {
	case <-trigger:
		t.Fatal("unexpected second trigger")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestTreeWatcherPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	trigger := make(chan string, 1)

	tw, err := NewTreeWatcher(root, 50*time.Millisecond, trigger)
	require.NoError(t, err)
	defer tw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tw.Start(ctx)

	sub := filepath.Join(root, "blog")
	require.NoError(t, os.Mkdir(sub, 0o755))

	select {
	case <-trigger:
	case <-time.After(2 * time.Second):
		t.Fatal("expected trigger for new directory")
	}

	// Events inside the new directory are observed too.
	require.NoError(t, os.WriteFile(filepath.Join(sub, "post.html"), []byte("x"), 0o644))
	select {
	case <-trigger:
	case <-time.After(2 * time.Second):
		t.Fatal("expected trigger for file in new directory")
	}
}

func TestTreeWatcherMissingRoot(t *testing.T) {
	trigger := make(chan string, 1)
	_, err := NewTreeWatcher(filepath.Join(t.TempDir(), "nope"), time.Second, trigger)
	require.Error(t, err)
}

func TestSchedulerTicks(t *testing.T) {
	trigger := make(chan string, 1)
	s, err := NewScheduler(50*time.Millisecond, trigger)
	require.NoError(t, err)
	s.Start()
	defer func() { require.NoError(t, s.Stop()) }()

	select {
	case reason := <-trigger:
		require.Equal(t, "schedule", reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a scheduled trigger")
	}
}
