package view

import (
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/storage/memory"
)

// faultyStore delegates to an in-memory store unless a hook overrides the call.
type faultyStore struct {
	*memory.Store

	loadCategoriesFn func() ([]models.TrackerCategory, error)
	addCategoryFn    func(models.TrackerCategory) error
	addTrackerFn     func(string, models.Tracker) error
	updateTrackerFn  func(string, models.Tracker) error
	addRecordFn      func(models.TrackerRecord) error
}

var _ storage.Provider = (*faultyStore)(nil)

func newFaultyStore() *faultyStore {
	return &faultyStore{Store: memory.New()}
}

func (f *faultyStore) LoadCategories() ([]models.TrackerCategory, error) {
	if f.loadCategoriesFn != nil {
		return f.loadCategoriesFn()
	}
	return f.Store.LoadCategories()
}

func (f *faultyStore) AddCategory(c models.TrackerCategory) error {
	if f.addCategoryFn != nil {
		return f.addCategoryFn(c)
	}
	return f.Store.AddCategory(c)
}

func (f *faultyStore) AddTrackerToCategory(title string, t models.Tracker) error {
	if f.addTrackerFn != nil {
		return f.addTrackerFn(title, t)
	}
	return f.Store.AddTrackerToCategory(title, t)
}

func (f *faultyStore) UpdateTracker(title string, t models.Tracker) error {
	if f.updateTrackerFn != nil {
		return f.updateTrackerFn(title, t)
	}
	return f.Store.UpdateTracker(title, t)
}

func (f *faultyStore) AddCompletionRecord(r models.TrackerRecord) error {
	if f.addRecordFn != nil {
		return f.addRecordFn(r)
	}
	return f.Store.AddCompletionRecord(r)
}
