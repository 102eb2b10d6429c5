package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tracker/internal/backup"
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting an existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy trackers and records from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized tracker storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		source, err := OpenStore(c.Source, ctx.Location)
		if err != nil {
			return err
		}
		if err := Copy(ctx, source, ctx.Store); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Printf("Copy completed successfully!\n")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if snap, err := backup.NewManager(dbPath).Create(); err != nil {
			logger.Warn("Could not back up database before reset", "error", err)
		} else {
			ctx.Printf("Backed up existing database to: %s\n", snap.Path)
		}
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// Copy loads every category, tracker and completion record from src and
// writes them to dst. Categories already present in dst are reused.
func Copy(ctx *cli.Context, src, dst storage.Provider) error {
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	categories, err := src.LoadCategories()
	if err != nil {
		return fmt.Errorf("failed to read categories from source: %w", err)
	}
	existing, err := dst.LoadCategories()
	if err != nil {
		return fmt.Errorf("failed to read categories from destination: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, category := range existing {
		have[category.Title] = true
	}

	ctx.Printf("  Copying categories and trackers...\n")
	trackers := 0
	for _, category := range categories {
		if !have[category.Title] {
			if err := dst.AddCategory(models.TrackerCategory{Title: category.Title}); err != nil {
				return fmt.Errorf("failed to add category %q: %w", category.Title, err)
			}
		}
		for _, t := range category.Trackers {
			if err := dst.AddTrackerToCategory(category.Title, t); err != nil {
				return fmt.Errorf("failed to add tracker %s: %w", t.ID, err)
			}
			trackers++
		}
	}
	ctx.Printf("    Copied %d categories, %d trackers\n", len(categories), trackers)

	ctx.Printf("  Copying completion records...\n")
	records, err := src.LoadCompletionRecords()
	if err != nil {
		return fmt.Errorf("failed to read records from source: %w", err)
	}
	for _, r := range records {
		if err := dst.AddCompletionRecord(r); err != nil {
			return fmt.Errorf("failed to add record for %s on %s: %w", r.TrackerID, r.Date.Format(constants.DateFormat), err)
		}
	}
	ctx.Printf("    Copied %d records\n", len(records))
	return nil
}
