// Package view turns trackers and completion records into the per-date
// render model a presentation layer displays.
package view

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/julianstephens/tracker/internal/completion"
	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/filter"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
)

type Option func(*Session)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.clock = now
	}
}

// Session owns the in-memory tracker and record sets for one presentation
// and projects them into States. A single mutex covers reload and
// recompute together, so external-update callbacks arriving on other
// goroutines never interleave with a projection.
type Session struct {
	mu         sync.Mutex
	store      storage.Provider
	clock      func() time.Time
	phase      Phase
	categories []models.TrackerCategory
	completion *completion.Tracker
	date       time.Time
	search     string
	loadErr    error

	subMu       sync.Mutex
	subscribers []func(State)
}

func NewSession(store storage.Provider, opts ...Option) *Session {
	s := &Session{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.completion = completion.New(store, nil)
	s.date = s.clock()

	if n, ok := store.(storage.Notifier); ok {
		n.OnExternalUpdate(s.handleExternalUpdate)
	}
	return s
}

// Subscribe registers fn to receive every State recomputed by a mutation or
// an external update. fn runs after the session lock is released.
func (s *Session) Subscribe(fn func(State)) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Session) publish(st State) {
	s.subMu.Lock()
	subs := make([]func(State), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// Watch starts the store's change watcher, if it has one.
func (s *Session) Watch() error {
	if n, ok := s.store.(storage.Notifier); ok {
		return n.StartWatching()
	}
	return nil
}

// Close stops the change watcher. The store itself stays open.
func (s *Session) Close() {
	if n, ok := s.store.(storage.Notifier); ok {
		n.StopWatching()
	}
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Load reads everything from the store. On failure the session still moves
// to PhaseLoaded, with empty sets, and the wrapped ErrStorageRead is returned.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload()
}

// Reload re-reads the store and publishes the recomputed State.
func (s *Session) Reload() (State, error) {
	s.mu.Lock()
	err := s.reload()
	st := s.project()
	s.mu.Unlock()

	s.publish(st)
	return st, err
}

func (s *Session) reload() error {
	categories, err := s.store.LoadCategories()
	if err == nil {
		var records []models.TrackerRecord
		records, err = s.store.LoadCompletionRecords()
		if err == nil {
			s.categories = categories
			s.completion.Reset(records)
		}
	}

	if s.phase == PhaseIdle {
		s.phase = PhaseLoaded
	}
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrStorageRead) {
			err = apperrors.Wrap(apperrors.ErrStorageRead, err)
		}
		logger.Warn("Failed to load trackers", "error", err)
		s.categories = nil
		s.completion.Reset(nil)
		s.loadErr = err
		return err
	}

	s.loadErr = nil
	logger.Debug("Loaded trackers", "categories", len(s.categories))
	return nil
}

// ensureLoaded reads the store on first use. Callers hold s.mu.
func (s *Session) ensureLoaded() {
	if s.phase == PhaseIdle {
		_ = s.reload()
	}
}

func (s *Session) handleExternalUpdate() {
	s.mu.Lock()
	if s.phase == PhaseIdle {
		s.mu.Unlock()
		return
	}
	_ = s.reload()
	st := s.project()
	s.mu.Unlock()

	s.publish(st)
}

// GetViewState projects the trackers for date filtered by searchText. The
// first call loads from the store if Load has not run.
func (s *Session) GetViewState(date time.Time, searchText string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	s.date = date
	s.search = searchText
	return s.project()
}

// SetDate changes the selected date and publishes the new State.
func (s *Session) SetDate(date time.Time) State {
	return s.mutate(func() {
		s.date = date
	})
}

// SetSearch changes the title search and publishes the new State.
func (s *Session) SetSearch(text string) State {
	return s.mutate(func() {
		s.search = text
	})
}

func (s *Session) mutate(fn func()) State {
	s.mu.Lock()
	s.ensureLoaded()
	fn()
	st := s.project()
	s.mu.Unlock()

	s.publish(st)
	return st
}

func (s *Session) today() time.Time {
	return s.clock().In(s.date.Location())
}

func (s *Session) project() State {
	s.phase = PhaseFiltered

	st := State{
		Date:       s.date,
		SearchText: s.search,
		Phase:      s.phase,
	}

	byDate := filter.ByDate(s.categories, s.date, s.completion)
	visible := filter.ByTitle(byDate, s.search)
	enabled := !utils.IsAfterDay(s.date, s.today())

	row := func(t models.Tracker) Row {
		count := s.completion.CompletionCount(t.ID)
		return Row{
			Tracker:         t,
			Completed:       s.completion.IsComplete(t.ID, s.date),
			CompletionCount: count,
			DayLabel:        DayLabel(count),
			Streak:          s.completion.Streak(t, s.date),
			Enabled:         enabled,
		}
	}

	var pinned []models.Tracker
	var sections []Section
	for _, category := range visible {
		sec := Section{Title: category.Title}
		for _, t := range category.Trackers {
			if t.IsPinned {
				pinned = append(pinned, t)
				continue
			}
			sec.Rows = append(sec.Rows, row(t))
		}
		if len(sec.Rows) > 0 {
			sections = append(sections, sec)
		}
	}
	if len(pinned) > 0 {
		filter.SortByTitle(pinned)
		sec := Section{Title: constants.PinnedSectionTitle}
		for _, t := range pinned {
			sec.Rows = append(sec.Rows, row(t))
		}
		sections = append([]Section{sec}, sections...)
	}
	st.Sections = sections

	if len(sections) == 0 {
		switch {
		case s.loadErr != nil:
			st.Empty = EmptyLoadFailed
			st.Err = s.loadErr
		case len(byDate) > 0:
			st.Empty = EmptyNothingFound
		default:
			st.Empty = EmptyNoTrackers
		}
	}
	return st
}

// ToggleCompletion flips trackerID's completion on date. Dates after today
// are rejected with ErrToggleRejected and leave everything unchanged, as is
// marking a tracker on a date the board would not show it. Unmarking an
// existing completion is always allowed.
func (s *Session) ToggleCompletion(trackerID string, date time.Time) error {
	s.mu.Lock()
	s.ensureLoaded()
	ci, ti, ok := s.find(trackerID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", apperrors.ErrTrackerNotFound, trackerID)
	}
	if utils.IsAfterDay(date, s.clock().In(date.Location())) {
		s.mu.Unlock()
		logger.Debug("Rejected toggle for future date", "tracker", trackerID, "date", utils.DayKey(date))
		return fmt.Errorf("%w: %s", apperrors.ErrToggleRejected, utils.DayKey(date))
	}
	t := s.categories[ci].Trackers[ti]
	if !s.completion.IsComplete(trackerID, date) && !filter.IsEligible(t, date, s.completion) {
		s.mu.Unlock()
		logger.Debug("Rejected toggle for ineligible date", "tracker", trackerID, "date", utils.DayKey(date))
		return fmt.Errorf("%w: %q is not due on %s", apperrors.ErrToggleRejected, t.Title, utils.DayKey(date))
	}
	if _, err := s.completion.Toggle(trackerID, date); err != nil {
		s.mu.Unlock()
		logger.Warn("Failed to toggle completion", "tracker", trackerID, "error", err)
		return err
	}
	st := s.project()
	s.mu.Unlock()

	s.publish(st)
	return nil
}

// Categories returns a copy of the loaded categories, titles ascending.
func (s *Session) Categories() []models.TrackerCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	out := make([]models.TrackerCategory, len(s.categories))
	for i, c := range s.categories {
		out[i] = models.TrackerCategory{Title: c.Title, Trackers: append([]models.Tracker(nil), c.Trackers...)}
	}
	return out
}

// Tracker looks up a loaded tracker and the title of its category.
func (s *Session) Tracker(id string) (models.Tracker, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	ci, ti, ok := s.find(id)
	if !ok {
		return models.Tracker{}, "", false
	}
	return s.categories[ci].Trackers[ti], s.categories[ci].Title, true
}

// FindByTitle returns loaded trackers whose title equals title, ignoring case.
func (s *Session) FindByTitle(title string) []models.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	var out []models.Tracker
	for _, c := range s.categories {
		for _, t := range c.Trackers {
			if strings.EqualFold(t.Title, title) {
				out = append(out, t)
			}
		}
	}
	return out
}

func (s *Session) find(id string) (int, int, bool) {
	for ci, c := range s.categories {
		for ti, t := range c.Trackers {
			if t.ID == id {
				return ci, ti, true
			}
		}
	}
	return 0, 0, false
}

func (s *Session) categoryIndex(title string) (int, bool) {
	for i, c := range s.categories {
		if c.Title == title {
			return i, true
		}
	}
	return 0, false
}

// CreateCategory adds an empty category. Duplicate titles are rejected with
// ErrDuplicateCategory.
func (s *Session) CreateCategory(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrInvalidCategory)
	}

	return s.write(func() (func(), error) {
		if _, ok := s.categoryIndex(title); ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrDuplicateCategory, title)
		}
		apply := func() {
			s.categories = append(s.categories, models.TrackerCategory{Title: title, Trackers: []models.Tracker{}})
			sort.SliceStable(s.categories, func(i, j int) bool {
				return s.categories[i].Title < s.categories[j].Title
			})
		}
		return apply, s.store.AddCategory(models.TrackerCategory{Title: title})
	})
}

// CreateTracker adds t to the existing category categoryTitle. An empty ID
// is filled with a new UUID.
func (s *Session) CreateTracker(t models.Tracker, categoryTitle string) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.clock()
	}
	if err := validateTracker(t); err != nil {
		return err
	}

	return s.write(func() (func(), error) {
		ci, ok := s.categoryIndex(categoryTitle)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, categoryTitle)
		}
		if _, _, dup := s.find(t.ID); dup {
			return nil, fmt.Errorf("%w: tracker %s already exists", apperrors.ErrInvalidTracker, t.ID)
		}
		apply := func() {
			s.categories[ci].Trackers = append(s.categories[ci].Trackers, t)
		}
		return apply, s.store.AddTrackerToCategory(categoryTitle, t)
	})
}

// EditTracker replaces the tracker with t's ID, moving it to categoryTitle.
func (s *Session) EditTracker(t models.Tracker, categoryTitle string) error {
	if err := validateTracker(t); err != nil {
		return err
	}

	return s.write(func() (func(), error) {
		ci, ti, ok := s.find(t.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTrackerNotFound, t.ID)
		}
		target, ok := s.categoryIndex(categoryTitle)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, categoryTitle)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.categories[ci].Trackers[ti].CreatedAt
		}
		apply := func() {
			if target == ci {
				s.categories[ci].Trackers[ti] = t
				return
			}
			s.removeAt(ci, ti)
			s.categories[target].Trackers = append(s.categories[target].Trackers, t)
		}
		return apply, s.store.UpdateTracker(categoryTitle, t)
	})
}

// SetPinned pins or unpins a tracker. Pinned trackers are shown in a
// leading section of their own.
func (s *Session) SetPinned(id string, pinned bool) error {
	return s.write(func() (func(), error) {
		ci, ti, ok := s.find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTrackerNotFound, id)
		}
		t := s.categories[ci].Trackers[ti]
		t.IsPinned = pinned
		apply := func() {
			s.categories[ci].Trackers[ti] = t
		}
		return apply, s.store.UpdateTracker(s.categories[ci].Title, t)
	})
}

// DeleteTracker soft-deletes a tracker. Its completion records are kept so
// a restore brings its history back.
func (s *Session) DeleteTracker(id string) error {
	return s.write(func() (func(), error) {
		ci, ti, ok := s.find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTrackerNotFound, id)
		}
		apply := func() {
			s.removeAt(ci, ti)
		}
		return apply, s.store.DeleteTracker(id)
	})
}

// RestoreTracker undoes DeleteTracker and reloads from the store.
func (s *Session) RestoreTracker(id string) error {
	s.mu.Lock()
	if err := s.store.RestoreTracker(id); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.reload()
	st := s.project()
	s.mu.Unlock()

	s.publish(st)
	return err
}

func (s *Session) removeAt(ci, ti int) {
	trackers := s.categories[ci].Trackers
	s.categories[ci].Trackers = append(trackers[:ti:ti], trackers[ti+1:]...)
}

// write runs a change whose persistence may fail. prepare validates against
// the in-memory sets and performs the store call. Rejections leave memory
// alone; any other store failure still applies the change in memory and is
// reported wrapped in ErrStorageWrite.
func (s *Session) write(prepare func() (apply func(), storeErr error)) error {
	s.mu.Lock()
	s.ensureLoaded()

	apply, err := prepare()
	if apply == nil {
		s.mu.Unlock()
		return err
	}
	if err != nil && isRejection(err) {
		s.mu.Unlock()
		return err
	}
	apply()
	st := s.project()
	s.mu.Unlock()

	s.publish(st)

	if err != nil {
		logger.Warn("Change kept in memory but not persisted", "error", err)
		if !apperrors.Is(err, apperrors.ErrStorageWrite) {
			err = apperrors.Wrap(apperrors.ErrStorageWrite, err)
		}
		return err
	}
	return nil
}

func isRejection(err error) bool {
	return apperrors.Is(err, apperrors.ErrDuplicateCategory) ||
		apperrors.Is(err, apperrors.ErrCategoryNotFound) ||
		apperrors.Is(err, apperrors.ErrTrackerNotFound) ||
		apperrors.Is(err, apperrors.ErrInvalidTracker)
}

func validateTracker(t models.Tracker) error {
	title := strings.TrimSpace(t.Title)
	switch {
	case t.ID == "":
		return fmt.Errorf("%w: missing id", apperrors.ErrInvalidTracker)
	case title == "":
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrInvalidTracker)
	case utf8.RuneCountInString(title) > constants.MaxTitleLength:
		return fmt.Errorf("%w: title exceeds %d characters", apperrors.ErrInvalidTracker, constants.MaxTitleLength)
	}
	return nil
}
