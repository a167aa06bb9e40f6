package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/axisproperty/dealengine/internal/logbook"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	store := NewStore(path)

	submission := logbook.Submission{
		FullAddress: "1 Example Road",
		Postcode:    "SW1A 1AA",
		GuidePrice:  250_000,
	}
	lb, err := logbook.New("PROP-aaaaaaaaaaaa", submission, time.Now())
	require.NoError(t, err)

	err = store.Save(map[string]*logbook.Logbook{"PROP-aaaaaaaaaaaa": lb})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, SnapshotSchemaVersion, loaded.SchemaVersion)
	require.Contains(t, loaded.Logbooks, "PROP-aaaaaaaaaaaa")
	require.Equal(t, "1 Example Road", loaded.Logbooks["PROP-aaaaaaaaaaaa"].Versions[0].Snapshot.FullAddress)
}

func TestLoadMissingFileReturnsEmptySnapshot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	snapshot, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, snapshot.Logbooks)
}
