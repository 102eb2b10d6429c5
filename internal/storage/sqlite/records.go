package sqlite

import (
	"fmt"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

func (s *Store) LoadCompletionRecords() ([]models.TrackerRecord, error) {
	rows, err := s.db.Query("SELECT tracker_id, day FROM tracker_records ORDER BY tracker_id, day")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	defer rows.Close()

	var records []models.TrackerRecord
	for rows.Next() {
		var id, day string
		if err := rows.Scan(&id, &day); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
		}
		date, err := utils.ParseDateInLocation(day, s.loc)
		if err == nil && id == "" {
			err = fmt.Errorf("missing tracker id")
		}
		if err != nil {
			logger.Warn("Skipping malformed completion record", "tracker", id, "day", day,
				"error", apperrors.Wrap(apperrors.ErrDecoding, err))
			continue
		}
		records = append(records, models.TrackerRecord{TrackerID: id, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	return records, nil
}

func (s *Store) AddCompletionRecord(record models.TrackerRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO tracker_records (tracker_id, day) VALUES (?, ?)
		ON CONFLICT(tracker_id, day) DO NOTHING`,
		record.TrackerID, utils.DayKey(record.Date))
	return apperrors.Wrap(apperrors.ErrStorageWrite, err)
}

func (s *Store) RemoveCompletionRecord(trackerID string, date time.Time) error {
	_, err := s.db.Exec("DELETE FROM tracker_records WHERE tracker_id = ? AND day = ?",
		trackerID, utils.DayKey(date))
	return apperrors.Wrap(apperrors.ErrStorageWrite, err)
}
