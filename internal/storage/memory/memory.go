// Package memory implements an in-process Provider for tests and ephemeral sessions.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

// Store keeps categories, trackers and records in memory.
type Store struct {
	mu         sync.Mutex
	categories map[string][]string // category title -> tracker IDs in insertion order
	trackers   map[string]models.Tracker
	owner      map[string]string              // tracker ID -> category title
	records    map[string]map[string]time.Time // tracker ID -> day key -> day

	observers storage.Observers
	now       func() time.Time
}

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Notifier = (*Store)(nil)
)

func New() *Store {
	return &Store{
		categories: make(map[string][]string),
		trackers:   make(map[string]models.Tracker),
		owner:      make(map[string]string),
		records:    make(map[string]map[string]time.Time),
		now:        time.Now,
	}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string {
	return constants.ConfigMemory
}

func (s *Store) LoadCategories() ([]models.TrackerCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	titles := make([]string, 0, len(s.categories))
	for title := range s.categories {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	out := make([]models.TrackerCategory, 0, len(titles))
	for _, title := range titles {
		category := models.TrackerCategory{Title: title, Trackers: []models.Tracker{}}
		for _, id := range s.categories[title] {
			t := s.trackers[id]
			if t.IsDeleted() {
				continue
			}
			category.Trackers = append(category.Trackers, t)
		}
		out = append(out, category)
	}
	return out, nil
}

func (s *Store) AddCategory(category models.TrackerCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.Title]; ok {
		return fmt.Errorf("%w: %q", apperrors.ErrDuplicateCategory, category.Title)
	}
	for _, t := range category.Trackers {
		if _, ok := s.trackers[t.ID]; ok {
			return fmt.Errorf("%w: tracker %s already exists", apperrors.ErrInvalidTracker, t.ID)
		}
	}

	s.categories[category.Title] = nil
	for _, t := range category.Trackers {
		s.insert(category.Title, t)
	}
	return nil
}

func (s *Store) AddTrackerToCategory(categoryTitle string, tracker models.Tracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[categoryTitle]; !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, categoryTitle)
	}
	if _, ok := s.trackers[tracker.ID]; ok {
		return fmt.Errorf("%w: tracker %s already exists", apperrors.ErrInvalidTracker, tracker.ID)
	}
	s.insert(categoryTitle, tracker)
	return nil
}

func (s *Store) insert(categoryTitle string, tracker models.Tracker) {
	s.categories[categoryTitle] = append(s.categories[categoryTitle], tracker.ID)
	s.trackers[tracker.ID] = tracker
	s.owner[tracker.ID] = categoryTitle
}

func (s *Store) UpdateTracker(categoryTitle string, tracker models.Tracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.trackers[tracker.ID]
	if !ok || current.IsDeleted() {
		return fmt.Errorf("%w: %s", apperrors.ErrTrackerNotFound, tracker.ID)
	}
	if _, ok := s.categories[categoryTitle]; !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, categoryTitle)
	}

	if from := s.owner[tracker.ID]; from != categoryTitle {
		ids := s.categories[from]
		for i, id := range ids {
			if id == tracker.ID {
				s.categories[from] = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
		s.categories[categoryTitle] = append(s.categories[categoryTitle], tracker.ID)
		s.owner[tracker.ID] = categoryTitle
	}
	tracker.DeletedAt = nil
	s.trackers[tracker.ID] = tracker
	return nil
}

func (s *Store) DeleteTracker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trackers[id]
	if !ok || t.IsDeleted() {
		return fmt.Errorf("%w: %s not found or already deleted", apperrors.ErrTrackerNotFound, id)
	}
	now := s.now()
	t.DeletedAt = &now
	s.trackers[id] = t
	return nil
}

func (s *Store) RestoreTracker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trackers[id]
	if !ok || !t.IsDeleted() {
		return fmt.Errorf("%w: %s not found or not deleted", apperrors.ErrTrackerNotFound, id)
	}
	t.DeletedAt = nil
	s.trackers[id] = t
	return nil
}

// LoadCompletionRecords returns records ordered by tracker ID, then day.
func (s *Store) LoadCompletionRecords() ([]models.TrackerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.TrackerRecord
	for id, days := range s.records {
		for _, day := range days {
			out = append(out, models.TrackerRecord{TrackerID: id, Date: day})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrackerID != out[j].TrackerID {
			return out[i].TrackerID < out[j].TrackerID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *Store) AddCompletionRecord(record models.TrackerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.records[record.TrackerID]
	if !ok {
		days = make(map[string]time.Time)
		s.records[record.TrackerID] = days
	}
	days[utils.DayKey(record.Date)] = record.Day()
	return nil
}

func (s *Store) RemoveCompletionRecord(trackerID string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if days, ok := s.records[trackerID]; ok {
		delete(days, utils.DayKey(date))
		if len(days) == 0 {
			delete(s.records, trackerID)
		}
	}
	return nil
}

func (s *Store) OnExternalUpdate(fn func()) {
	s.observers.Add(fn)
}

// StartWatching is a no-op; nothing outside the process can change an in-memory store.
func (s *Store) StartWatching() error { return nil }

func (s *Store) StopWatching() {}

// Notify fires the registered update callbacks, standing in for a background sync.
func (s *Store) Notify() {
	s.observers.Fire()
}
