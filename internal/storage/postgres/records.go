package postgres

import (
	"errors"
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
		record, err := decodeRecord(id, day, s.loc)
		if err != nil {
			logger.Warn("Skipping malformed completion record", "tracker", id, "day", day, "error", err)
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageRead, err)
	}
	return records, nil
}

// decodeRecord rebuilds a record from its row, rejecting rows without a
// tracker id or with a day that is not a calendar date.
func decodeRecord(id, day string, loc *time.Location) (models.TrackerRecord, error) {
	if id == "" {
		return models.TrackerRecord{}, apperrors.Wrap(apperrors.ErrDecoding, errors.New("missing tracker id"))
	}
	date, err := utils.ParseDateInLocation(day, loc)
	if err != nil {
		return models.TrackerRecord{}, apperrors.Wrap(apperrors.ErrDecoding, fmt.Errorf("day %q: %w", day, err))
	}
	return models.TrackerRecord{TrackerID: id, Date: date}, nil
}

func (s *Store) AddCompletionRecord(record models.TrackerRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO tracker_records (tracker_id, day) VALUES ($1, $2)
		ON CONFLICT (tracker_id, day) DO NOTHING`,
		record.TrackerID, utils.DayKey(record.Date))
	return apperrors.Wrap(apperrors.ErrStorageWrite, err)
}

func (s *Store) RemoveCompletionRecord(trackerID string, date time.Time) error {
	_, err := s.db.Exec("DELETE FROM tracker_records WHERE tracker_id = $1 AND day = $2",
		trackerID, utils.DayKey(date))
	return apperrors.Wrap(apperrors.ErrStorageWrite, err)
}
