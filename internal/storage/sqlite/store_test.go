package sqlite

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "tracker.db")).WithLocation(time.UTC)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProviderContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestLoadWithoutInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'tracker init' first")
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	first := NewStore(path)
	require.NoError(t, first.Init())
	require.NoError(t, first.AddCategory(models.TrackerCategory{Title: "Health"}))
	require.NoError(t, first.Close())

	second := NewStore(path)
	require.NoError(t, second.Load())
	t.Cleanup(func() { second.Close() })

	categories, err := second.LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Health", categories[0].Title)
}

func TestTableExists(t *testing.T) {
	store := setupTestStore(t)

	exists, err := store.tableExists("TRACKERS")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.tableExists("nonexistent_table")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMalformedRowsAreSkipped(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.AddCategory(models.TrackerCategory{
		Title: "Health",
		Trackers: []models.Tracker{{
			ID: "good", Title: "Run", Color: "#FD4C49", Emoji: "🙂",
			Schedule: models.EveryDay, CreatedAt: time.Now(),
		}},
	}))

	db := store.GetDB()
	_, err := db.Exec(`INSERT INTO trackers (id, category_title, title, color, emoji, schedule, is_pinned, created_at)
		VALUES ('bad-schedule', 'Health', 'Swim', '#FD4C49', '🙂', 'not json', 0, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO trackers (id, category_title, title, color, emoji, schedule, is_pinned, created_at)
		VALUES ('bad-date', 'Health', 'Read', '#FD4C49', '🙂', '[1]', 0, 'yesterday')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tracker_records (tracker_id, day) VALUES ('good', '2024-02-30'), ('good', '2024-02-03')`)
	require.NoError(t, err)

	categories, err := store.LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].Trackers, 1)
	assert.Equal(t, "good", categories[0].Trackers[0].ID)

	records, err := store.LoadCompletionRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), records[0].Date)
}

func TestPinnedRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.AddCategory(models.TrackerCategory{Title: "Home"}))
	tr := models.Tracker{ID: "t1", Title: "Dishes", Color: "#007BFA", Emoji: "🙌", CreatedAt: time.Now()}
	require.NoError(t, store.AddTrackerToCategory("Home", tr))

	tr.IsPinned = true
	require.NoError(t, store.UpdateTracker("Home", tr))

	categories, err := store.LoadCategories()
	require.NoError(t, err)
	got := categories[0].Trackers[0]
	assert.True(t, got.IsPinned)
	assert.True(t, got.IsEvent())
}

func TestWatchDetectsOtherConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	watcher := NewStore(path)
	require.NoError(t, watcher.Init())
	t.Cleanup(func() { watcher.Close() })

	var calls atomic.Int32
	watcher.OnExternalUpdate(func() { calls.Add(1) })
	watcher.SetWatchSchedule("@every 1s")
	require.NoError(t, watcher.StartWatching())
	require.NoError(t, watcher.StartWatching())

	writer := NewStore(path)
	require.NoError(t, writer.Load())
	t.Cleanup(func() { writer.Close() })
	require.NoError(t, writer.AddCategory(models.TrackerCategory{Title: "Shared"}))

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 5*time.Second, 100*time.Millisecond)

	watcher.StopWatching()
	watcher.StopWatching()
}

func TestStartWatchingBeforeLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tracker.db"))
	assert.Error(t, store.StartWatching())
}

func TestStartWatchingRejectsBadSchedule(t *testing.T) {
	store := setupTestStore(t)
	store.SetWatchSchedule("every now and then")
	assert.Error(t, store.StartWatching())
}
