package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mediamirror/internal/assets"
)

func sampleReport(id string, failed int) *assets.Report {
	now := time.Now().Truncate(time.Second)
	return &assets.Report{
		RunID:            id,
		Root:             "./site",
		Started:          now.Add(-time.Minute),
		Finished:         now,
		DocumentsScanned: 12,
		DocumentsChanged: 4,
		Downloaded:       7,
		Reused:           2,
		Failed:           failed,
	}
}

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, sampleReport("run-1", 0)))
	require.NoError(t, store.Record(ctx, sampleReport("run-2", 3)))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "run-2", records[0].RunID)
	assert.Equal(t, "partial", records[0].Outcome)
	assert.Equal(t, "run-1", records[1].RunID)
	assert.Equal(t, "success", records[1].Outcome)
	assert.Equal(t, 7, records[0].Downloaded)
	assert.Equal(t, 12, records[0].DocumentsScanned)
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, sampleReport("run", 0)))
	}
	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestOpenPersistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), sampleReport("persisted", 0)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].RunID)
}

func TestRecentEmpty(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
