package storage

import (
	"time"

	"github.com/julianstephens/tracker/internal/models"
)

// Provider is the repository contract the tracker engine persists through.
//
// LoadCategories returns categories ordered by title ascending with their
// non-deleted trackers. Rows that cannot be decoded are skipped and logged
// rather than failing the load.
type Provider interface {
	Init() error
	Load() error
	Close() error

	LoadCategories() ([]models.TrackerCategory, error)
	AddCategory(category models.TrackerCategory) error
	AddTrackerToCategory(categoryTitle string, tracker models.Tracker) error
	// UpdateTracker replaces the tracker with the same ID, moving it to
	// categoryTitle if it lives elsewhere.
	UpdateTracker(categoryTitle string, tracker models.Tracker) error
	DeleteTracker(id string) error
	RestoreTracker(id string) error

	LoadCompletionRecords() ([]models.TrackerRecord, error)
	AddCompletionRecord(record models.TrackerRecord) error
	// RemoveCompletionRecord deletes the record for trackerID whose day matches date's calendar day.
	RemoveCompletionRecord(trackerID string, date time.Time) error

	GetConfigPath() string
}

// Notifier is implemented by providers that can observe changes made outside
// the current process. Callbacks mean "reload everything" and may run on any
// goroutine.
type Notifier interface {
	OnExternalUpdate(fn func())
	StartWatching() error
	StopWatching()
}
