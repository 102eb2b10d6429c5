package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
)

func (s *Store) LoadCategories() ([]models.TrackerCategory, error) {
	exists, err := s.tableExists("categories")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	if !exists {
		return []models.TrackerCategory{}, nil
	}

	rows, err := s.db.Query("SELECT title FROM categories ORDER BY title")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	var categories []models.TrackerCategory
	index := make(map[string]int)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			rows.Close()
			return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
		}
		index[title] = len(categories)
		categories = append(categories, models.TrackerCategory{Title: title, Trackers: []models.Tracker{}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}

	rows, err = s.db.Query(`
		SELECT id, category_title, title, color, emoji, schedule, is_pinned, created_at
		FROM trackers WHERE deleted_at IS NULL
		ORDER BY rowid`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t                       models.Tracker
			categoryTitle, schedule string
			createdAt               string
			pinned                  bool
		)
		if err := rows.Scan(&t.ID, &categoryTitle, &t.Title, &t.Color, &t.Emoji, &schedule, &pinned, &createdAt); err != nil {
			logger.Warn("Skipping unreadable tracker row", "error", apperrors.Wrap(apperrors.ErrDecoding, err))
			continue
		}
		if err := decodeTracker(&t, schedule, createdAt); err != nil {
			logger.Warn("Skipping malformed tracker", "id", t.ID, "error", err)
			continue
		}
		t.IsPinned = pinned

		i, ok := index[categoryTitle]
		if !ok {
			logger.Warn("Skipping tracker in unknown category", "id", t.ID, "category", categoryTitle)
			continue
		}
		categories[i].Trackers = append(categories[i].Trackers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}

	if categories == nil {
		categories = []models.TrackerCategory{}
	}
	return categories, nil
}

func decodeTracker(t *models.Tracker, schedule, createdAt string) error {
	if t.ID == "" || t.Title == "" {
		return fmt.Errorf("%w: missing id or title", apperrors.ErrDecoding)
	}
	if err := json.Unmarshal([]byte(schedule), &t.Schedule); err != nil {
		return fmt.Errorf("%w: schedule %q: %v", apperrors.ErrDecoding, schedule, err)
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("%w: created_at %q: %v", apperrors.ErrDecoding, createdAt, err)
	}
	t.CreatedAt = created
	return nil
}

func (s *Store) AddCategory(category models.TrackerCategory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO categories (title, created_at) VALUES (?, ?)
		ON CONFLICT(title) DO NOTHING`,
		category.Title, time.Now().Format(time.RFC3339))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	} else if n == 0 {
		return fmt.Errorf("%w: %q", apperrors.ErrDuplicateCategory, category.Title)
	}

	for _, t := range category.Trackers {
		if err := insertTracker(tx, category.Title, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	return nil
}

func (s *Store) AddTrackerToCategory(categoryTitle string, tracker models.Tracker) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	if err := requireCategory(tx, categoryTitle); err != nil {
		return err
	}
	if err := insertTracker(tx, categoryTitle, tracker); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	return nil
}

func requireCategory(tx *sql.Tx, title string) error {
	var one int
	err := tx.QueryRow("SELECT 1 FROM categories WHERE title = ?", title).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, title)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	return nil
}

func insertTracker(tx *sql.Tx, categoryTitle string, t models.Tracker) error {
	schedule, err := json.Marshal(t.Schedule)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	_, err = tx.Exec(`
		INSERT INTO trackers (id, category_title, title, color, emoji, schedule, is_pinned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, categoryTitle, t.Title, t.Color, t.Emoji, string(schedule), t.IsPinned, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, fmt.Errorf("insert tracker %s: %w", t.ID, err))
	}
	return nil
}

func (s *Store) UpdateTracker(categoryTitle string, tracker models.Tracker) error {
	schedule, err := json.Marshal(tracker.Schedule)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	if err := requireCategory(tx, categoryTitle); err != nil {
		return err
	}
	res, err := tx.Exec(`
		UPDATE trackers
		SET category_title = ?, title = ?, color = ?, emoji = ?, schedule = ?, is_pinned = ?
		WHERE id = ? AND deleted_at IS NULL`,
		categoryTitle, tracker.Title, tracker.Color, tracker.Emoji, string(schedule), tracker.IsPinned, tracker.ID)
	if err := checkAffected(res, err, tracker.ID, "not found"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	return nil
}

func (s *Store) DeleteTracker(id string) error {
	res, err := s.db.Exec("UPDATE trackers SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().Format(time.RFC3339), id)
	return checkAffected(res, err, id, "not found or already deleted")
}

func (s *Store) RestoreTracker(id string) error {
	res, err := s.db.Exec("UPDATE trackers SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL", id)
	return checkAffected(res, err, id, "not found or not deleted")
}

func checkAffected(res sql.Result, err error, id, reason string) error {
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrTrackerNotFound, id, reason)
	}
	return nil
}
