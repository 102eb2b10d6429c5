// Package storagetest holds the behavioral checks every storage.Provider must pass.
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
)

// Factory returns a ready (initialized) provider that is empty.
type Factory func(t *testing.T) storage.Provider

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func tracker(id, title string, schedule models.Schedule) models.Tracker {
	return models.Tracker{
		ID:        id,
		Title:     title,
		Color:     "#33CF69",
		Emoji:     "🙂",
		Schedule:  schedule,
		CreatedAt: day(2024, 1, 1, 9),
	}
}

func titles(categories []models.TrackerCategory) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Title
	}
	return out
}

// Run exercises the Provider contract against fresh stores from newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("categories sorted by title with trackers", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "Work"}))
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "Health"}))
		require.NoError(t, s.AddTrackerToCategory("Health", tracker("t1", "Run", models.NewSchedule(models.Monday))))
		require.NoError(t, s.AddTrackerToCategory("Health", tracker("t2", "Meditate", models.EveryDay)))

		categories, err := s.LoadCategories()
		require.NoError(t, err)
		assert.Equal(t, []string{"Health", "Work"}, titles(categories))
		require.Len(t, categories[0].Trackers, 2)
		assert.Empty(t, categories[1].Trackers)

		got := categories[0].Trackers[0]
		assert.Equal(t, "t1", got.ID)
		assert.Equal(t, "Run", got.Title)
		assert.Equal(t, "#33CF69", got.Color)
		assert.Equal(t, "🙂", got.Emoji)
		assert.Equal(t, models.NewSchedule(models.Monday), got.Schedule)
		assert.True(t, got.CreatedAt.Equal(day(2024, 1, 1, 9)))
	})

	t.Run("trackers keep insertion order", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "Home"}))
		require.NoError(t, s.AddTrackerToCategory("Home", tracker("zzz", "Sweep", models.EveryDay)))
		require.NoError(t, s.AddTrackerToCategory("Home", tracker("aaa", "Mop", models.EveryDay)))

		// Later instant whose RFC3339 text sorts before the UTC rows.
		offset := tracker("mmm", "Dust", models.EveryDay)
		offset.CreatedAt = time.Date(2024, 1, 1, 8, 0, 0, 0, time.FixedZone("-05", -5*3600))
		require.NoError(t, s.AddTrackerToCategory("Home", offset))

		edited := tracker("zzz", "Sweep floors", models.EveryDay)
		require.NoError(t, s.UpdateTracker("Home", edited))

		categories, err := s.LoadCategories()
		require.NoError(t, err)
		require.Len(t, categories, 1)
		var ids []string
		for _, tr := range categories[0].Trackers {
			ids = append(ids, tr.ID)
		}
		assert.Equal(t, []string{"zzz", "aaa", "mmm"}, ids)
	})

	t.Run("duplicate category rejected", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "Home"}))
		err := s.AddCategory(models.TrackerCategory{Title: "Home"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateCategory)

		categories, err := s.LoadCategories()
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("category created with trackers", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCategory(models.TrackerCategory{
			Title:    "Home",
			Trackers: []models.Tracker{tracker("t1", "Water plants", models.NewSchedule(models.Sunday))},
		}))

		categories, err := s.LoadCategories()
		require.NoError(t, err)
		require.Len(t, categories, 1)
		require.Len(t, categories[0].Trackers, 1)
		assert.Equal(t, "Water plants", categories[0].Trackers[0].Title)
	})

	t.Run("tracker into unknown category", func(t *testing.T) {
		s := newStore(t)
		err := s.AddTrackerToCategory("Nope", tracker("t1", "Run", models.EveryDay))
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})

	t.Run("update replaces by id and moves category", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "A"}))
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "B"}))
		require.NoError(t, s.AddTrackerToCategory("A", tracker("t1", "Run", models.EveryDay)))

		edited := tracker("t1", "Run far", models.NewSchedule(models.Saturday))
		edited.IsPinned = true
		require.NoError(t, s.UpdateTracker("B", edited))

		categories, err := s.LoadCategories()
		require.NoError(t, err)
		assert.Empty(t, categories[0].Trackers)
		require.Len(t, categories[1].Trackers, 1)
		got := categories[1].Trackers[0]
		assert.Equal(t, "Run far", got.Title)
		assert.True(t, got.IsPinned)
		assert.Equal(t, models.NewSchedule(models.Saturday), got.Schedule)

		assert.ErrorIs(t, s.UpdateTracker("B", tracker("missing", "x", 0)), apperrors.ErrTrackerNotFound)
		assert.ErrorIs(t, s.UpdateTracker("C", edited), apperrors.ErrCategoryNotFound)
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCategory(models.TrackerCategory{Title: "A"}))
		require.NoError(t, s.AddTrackerToCategory("A", tracker("t1", "Run", models.EveryDay)))

		require.NoError(t, s.DeleteTracker("t1"))
		categories, err := s.LoadCategories()
		require.NoError(t, err)
		assert.Empty(t, categories[0].Trackers)
		assert.ErrorIs(t, s.DeleteTracker("t1"), apperrors.ErrTrackerNotFound)

		require.NoError(t, s.RestoreTracker("t1"))
		categories, err = s.LoadCategories()
		require.NoError(t, err)
		assert.Len(t, categories[0].Trackers, 1)
		assert.ErrorIs(t, s.RestoreTracker("t1"), apperrors.ErrTrackerNotFound)
	})

	t.Run("records keyed by calendar day", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AddCompletionRecord(models.TrackerRecord{TrackerID: "t1", Date: day(2024, 3, 4, 8)}))
		require.NoError(t, s.AddCompletionRecord(models.TrackerRecord{TrackerID: "t1", Date: day(2024, 3, 4, 22)}))
		require.NoError(t, s.AddCompletionRecord(models.TrackerRecord{TrackerID: "t1", Date: day(2024, 3, 5, 8)}))
		require.NoError(t, s.AddCompletionRecord(models.TrackerRecord{TrackerID: "t2", Date: day(2024, 3, 4, 8)}))

		records, err := s.LoadCompletionRecords()
		require.NoError(t, err)
		assert.Len(t, records, 3)

		require.NoError(t, s.RemoveCompletionRecord("t1", day(2024, 3, 4, 23)))
		records, err = s.LoadCompletionRecords()
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, r := range records {
			if r.TrackerID == "t1" {
				assert.Equal(t, 5, r.Date.Day())
			}
		}

		require.NoError(t, s.RemoveCompletionRecord("t1", day(2024, 3, 9, 0)))
	})
}
