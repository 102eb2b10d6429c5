package trackers

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage/memory"
	"github.com/julianstephens/tracker/internal/view"
)

func setup(t *testing.T) (*cli.Context, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.AddCategory(models.TrackerCategory{Title: "Health"}))
	require.NoError(t, store.AddCategory(models.TrackerCategory{Title: "Study"}))
	return &cli.Context{
		Store:    store,
		Session:  view.NewSession(store),
		Location: time.UTC,
		Out:      &bytes.Buffer{},
	}, store
}

func only(t *testing.T, store *memory.Store, category string) models.Tracker {
	t.Helper()
	categories, err := store.LoadCategories()
	require.NoError(t, err)
	for _, c := range categories {
		if c.Title == category {
			require.Len(t, c.Trackers, 1)
			return c.Trackers[0]
		}
	}
	t.Fatalf("category %q not found", category)
	return models.Tracker{}
}

func TestTrackerAddCmd(t *testing.T) {
	ctx, store := setup(t)

	cmd := &TrackerAddCmd{Title: "Run", Category: "Health", Schedule: "mon,wed", Color: "#007BFA", Emoji: "3"}
	require.NoError(t, cmd.Run(ctx))

	got := only(t, store, "Health")
	assert.Equal(t, "Run", got.Title)
	assert.Equal(t, models.NewSchedule(models.Monday, models.Wednesday), got.Schedule)
	assert.Equal(t, "#007BFA", got.Color)
	assert.Equal(t, constants.EmojiPalette[3], got.Emoji)
	assert.NotEmpty(t, got.ID)
}

func TestTrackerAddCmdRejectsBadInput(t *testing.T) {
	ctx, _ := setup(t)

	tests := []struct {
		name string
		cmd  TrackerAddCmd
	}{
		{"unknown weekday", TrackerAddCmd{Title: "Run", Category: "Health", Schedule: "funday", Color: "0", Emoji: "0"}},
		{"color outside palette", TrackerAddCmd{Title: "Run", Category: "Health", Schedule: "mon", Color: "#123456", Emoji: "0"}},
		{"title too long", TrackerAddCmd{Title: "This title is much longer than the limit allows", Category: "Health", Schedule: "mon", Color: "0", Emoji: "0"}},
		{"unknown category", TrackerAddCmd{Title: "Run", Category: "Work", Schedule: "mon", Color: "0", Emoji: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cmd.Run(ctx))
		})
	}
	assert.Empty(t, ctx.Session.Categories()[0].Trackers)
}

func TestTrackerEventCmd(t *testing.T) {
	ctx, store := setup(t)

	require.NoError(t, (&TrackerEventCmd{Title: "Dentist", Category: "Health"}).Run(ctx))

	got := only(t, store, "Health")
	assert.True(t, got.IsEvent())
	assert.Equal(t, constants.DefaultEventColor, got.Color)
	assert.Equal(t, constants.DefaultEventEmoji, got.Emoji)
}

func TestTrackerEditCmd(t *testing.T) {
	ctx, store := setup(t)
	require.NoError(t, (&TrackerAddCmd{Title: "Run", Category: "Health", Schedule: "mon", Color: "0", Emoji: "0"}).Run(ctx))
	original := only(t, store, "Health")

	edit := &TrackerEditCmd{Ref: "run", Title: "Read", Category: "Study", Schedule: "daily"}
	require.NoError(t, edit.Run(ctx))

	got := only(t, store, "Study")
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, "Read", got.Title)
	assert.Equal(t, models.EveryDay, got.Schedule)
	assert.Equal(t, original.Color, got.Color)

	err := (&TrackerEditCmd{Ref: original.ID, Schedule: "mon"}).Run(ctx)
	require.NoError(t, err)

	assert.Error(t, (&TrackerEditCmd{Ref: "ghost"}).Run(ctx))
}

func TestTrackerEditCmdEventSchedule(t *testing.T) {
	ctx, _ := setup(t)
	require.NoError(t, (&TrackerEventCmd{Title: "Dentist", Category: "Health"}).Run(ctx))

	assert.Error(t, (&TrackerEditCmd{Ref: "Dentist", Schedule: "mon"}).Run(ctx))
}

func TestTrackerPinAndDelete(t *testing.T) {
	ctx, store := setup(t)
	require.NoError(t, (&TrackerAddCmd{Title: "Run", Category: "Health", Schedule: "daily", Color: "0", Emoji: "0"}).Run(ctx))
	id := only(t, store, "Health").ID

	require.NoError(t, (&TrackerPinCmd{Ref: "Run"}).Run(ctx))
	assert.True(t, only(t, store, "Health").IsPinned)

	require.NoError(t, (&TrackerUnpinCmd{Ref: id}).Run(ctx))
	assert.False(t, only(t, store, "Health").IsPinned)

	require.NoError(t, (&TrackerDeleteCmd{Ref: "Run"}).Run(ctx))
	assert.Empty(t, ctx.Session.Categories()[0].Trackers)
	assert.Error(t, (&TrackerDeleteCmd{Ref: "Run"}).Run(ctx))

	require.NoError(t, (&TrackerRestoreCmd{ID: id}).Run(ctx))
	assert.Equal(t, id, only(t, store, "Health").ID)

	err := (&TrackerRestoreCmd{ID: id}).Run(ctx)
	assert.ErrorIs(t, err, apperrors.ErrTrackerNotFound)
}
