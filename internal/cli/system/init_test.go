package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tracker/internal/backup"
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage/memory"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
	"github.com/julianstephens/tracker/internal/view"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return &cli.Context{
		Store:    store,
		Session:  view.NewSession(store),
		Location: time.UTC,
		Out:      &bytes.Buffer{},
	}, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if err := ctx.Store.AddCategory(models.TrackerCategory{Title: "Health"}); err != nil {
		t.Fatalf("failed to add category: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}

	categories, err := ctx.Store.LoadCategories()
	if err != nil {
		t.Fatalf("failed to load categories: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("expected a fresh database, got %d categories", len(categories))
	}

	snaps, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("expected the old database to be backed up, got %d backups", len(snaps))
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected an error when source and destination are the same")
	}
}

func TestInitCmd_ForceRequiresSQLite(t *testing.T) {
	store := memory.New()
	ctx := &cli.Context{Store: store, Session: view.NewSession(store), Out: &bytes.Buffer{}}

	if err := (&InitCmd{Force: true}).Run(ctx); err == nil {
		t.Error("expected --force to be rejected for a memory store")
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "source.db")
	src := sqlite.NewStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatalf("failed to init source: %v", err)
	}
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	if err := src.AddCategory(models.TrackerCategory{Title: "Health", Trackers: []models.Tracker{
		{ID: "run", Title: "Run", Color: "#FD4C49", Emoji: "🙂", Schedule: models.EveryDay, CreatedAt: day},
	}}); err != nil {
		t.Fatalf("failed to seed source: %v", err)
	}
	if err := src.AddCompletionRecord(models.TrackerRecord{TrackerID: "run", Date: day}); err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("failed to close source: %v", err)
	}

	ctx, _ := setupTestInitDB(t)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	categories, err := ctx.Store.LoadCategories()
	if err != nil {
		t.Fatalf("failed to load categories: %v", err)
	}
	if len(categories) != 1 || len(categories[0].Trackers) != 1 {
		t.Fatalf("expected 1 category with 1 tracker, got %+v", categories)
	}
	records, err := ctx.Store.LoadCompletionRecords()
	if err != nil {
		t.Fatalf("failed to load records: %v", err)
	}
	if len(records) != 1 || records[0].TrackerID != "run" {
		t.Errorf("expected the run record to be copied, got %+v", records)
	}
}

func TestCopy_ReusesExistingCategories(t *testing.T) {
	src := memory.New()
	if err := src.AddCategory(models.TrackerCategory{Title: "Health", Trackers: []models.Tracker{
		{ID: "run", Title: "Run", Schedule: models.EveryDay},
	}}); err != nil {
		t.Fatal(err)
	}
	dst := memory.New()
	if err := dst.AddCategory(models.TrackerCategory{Title: "Health"}); err != nil {
		t.Fatal(err)
	}

	ctx := &cli.Context{Store: dst, Out: &bytes.Buffer{}}
	if err := Copy(ctx, src, dst); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	categories, _ := dst.LoadCategories()
	if len(categories) != 1 || len(categories[0].Trackers) != 1 {
		t.Errorf("expected the tracker to land in the existing category, got %+v", categories)
	}
}
