// Package completion tracks which calendar days each tracker was completed on.
package completion

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/utils"
)

// RecordStore is the slice of the repository a Tracker writes through.
type RecordStore interface {
	AddCompletionRecord(record models.TrackerRecord) error
	RemoveCompletionRecord(trackerID string, date time.Time) error
}

// Tracker mirrors the persisted completion records in memory. At most one
// record exists per (tracker ID, calendar day). It never consults a clock;
// rejecting future dates is the caller's job.
type Tracker struct {
	mu      sync.RWMutex
	store   RecordStore
	records map[string]map[string]time.Time // tracker ID -> day key -> day
}

func New(store RecordStore, records []models.TrackerRecord) *Tracker {
	t := &Tracker{store: store}
	t.Reset(records)
	return t
}

// Reset replaces the mirror. Duplicate days collapse to one record.
func (t *Tracker) Reset(records []models.TrackerRecord) {
	index := make(map[string]map[string]time.Time)
	for _, r := range records {
		days, ok := index[r.TrackerID]
		if !ok {
			days = make(map[string]time.Time)
			index[r.TrackerID] = days
		}
		days[utils.DayKey(r.Date)] = r.Day()
	}

	t.mu.Lock()
	t.records = index
	t.mu.Unlock()
}

func (t *Tracker) IsComplete(trackerID string, date time.Time) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.records[trackerID][utils.DayKey(date)]
	return ok
}

func (t *Tracker) HasRecords(trackerID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records[trackerID]) > 0
}

// CompletionCount is the number of distinct days trackerID was completed on.
func (t *Tracker) CompletionCount(trackerID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records[trackerID])
}

// Toggle flips completion of trackerID on date's calendar day and reports
// the new state. The store is written first; memory only changes once the
// write succeeds.
func (t *Tracker) Toggle(trackerID string, date time.Time) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := utils.DayKey(date)
	if _, done := t.records[trackerID][key]; done {
		if err := t.store.RemoveCompletionRecord(trackerID, date); err != nil {
			return true, apperrors.Wrap(apperrors.ErrStorageWrite, err)
		}
		delete(t.records[trackerID], key)
		if len(t.records[trackerID]) == 0 {
			delete(t.records, trackerID)
		}
		logger.Debug("Completion removed", "tracker", trackerID, "day", key)
		return false, nil
	}

	record := models.TrackerRecord{TrackerID: trackerID, Date: utils.StartOfDay(date)}
	if err := t.store.AddCompletionRecord(record); err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	days, ok := t.records[trackerID]
	if !ok {
		days = make(map[string]time.Time)
		t.records[trackerID] = days
	}
	days[key] = record.Date
	logger.Debug("Completion added", "tracker", trackerID, "day", key)
	return true, nil
}

// Streak counts consecutive completed occurrences of tr ending at date.
// Occurrences are the scheduled weekdays for a habit and every calendar day
// for an event. An incomplete date does not break the streak; counting
// then starts at the previous occurrence.
func (t *Tracker) Streak(tr models.Tracker, date time.Time) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	days := t.records[tr.ID]
	if len(days) == 0 {
		return 0
	}
	earliest := earliestDay(days)

	occurs := func(d time.Time) bool {
		return tr.IsEvent() || tr.Schedule.Contains(models.WeekdayOf(d))
	}

	day := utils.StartOfDay(date)
	if _, ok := days[utils.DayKey(day)]; !ok || !occurs(day) {
		day = utils.AddDays(day, -1)
	}

	streak := 0
	for !day.Before(earliest) {
		if occurs(day) {
			if _, ok := days[utils.DayKey(day)]; !ok {
				break
			}
			streak++
		}
		day = utils.AddDays(day, -1)
	}
	return streak
}

func earliestDay(days map[string]time.Time) time.Time {
	var first time.Time
	for _, d := range days {
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	return first
}

// Records returns a snapshot of every record, ordered by tracker then day.
func (t *Tracker) Records() []models.TrackerRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []models.TrackerRecord
	for id, days := range t.records {
		for _, d := range days {
			out = append(out, models.TrackerRecord{TrackerID: id, Date: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrackerID != out[j].TrackerID {
			return out[i].TrackerID < out[j].TrackerID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
