// Package filter selects the trackers relevant to a calendar day and a title search.
//
// Within each surviving category trackers are ordered by title using plain
// byte comparison of their UTF-8 encoding, which equals Unicode code point
// order. The sort is stable, so equal titles keep their input order.
// Categories keep their input order; categories left without trackers are
// dropped. Inputs are never modified.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/models"
)

// Completions answers the record lookups event eligibility depends on.
type Completions interface {
	HasRecords(trackerID string) bool
	IsComplete(trackerID string, date time.Time) bool
}

// IsEligible reports whether t is shown on date. A habit is shown on its
// scheduled weekdays. An event is shown every day until it is first
// completed, and afterwards only on the day(s) it was completed.
func IsEligible(t models.Tracker, date time.Time, c Completions) bool {
	if t.Schedule.Contains(models.WeekdayOf(date)) {
		return true
	}
	if !t.IsEvent() {
		return false
	}
	return !c.HasRecords(t.ID) || c.IsComplete(t.ID, date)
}

// ByDate keeps the trackers eligible on date.
func ByDate(categories []models.TrackerCategory, date time.Time, c Completions) []models.TrackerCategory {
	return keep(categories, func(t models.Tracker) bool {
		return IsEligible(t, date, c)
	})
}

// ByTitle keeps trackers whose title contains search, ignoring case. An
// empty search returns categories unchanged.
func ByTitle(categories []models.TrackerCategory, search string) []models.TrackerCategory {
	if search == "" {
		return categories
	}
	needle := strings.ToLower(search)
	return keep(categories, func(t models.Tracker) bool {
		return strings.Contains(strings.ToLower(t.Title), needle)
	})
}

// Apply runs the date filter, then the title filter on its output.
func Apply(categories []models.TrackerCategory, date time.Time, search string, c Completions) []models.TrackerCategory {
	return ByTitle(ByDate(categories, date, c), search)
}

func keep(categories []models.TrackerCategory, pred func(models.Tracker) bool) []models.TrackerCategory {
	out := make([]models.TrackerCategory, 0, len(categories))
	for _, category := range categories {
		var trackers []models.Tracker
		for _, t := range category.Trackers {
			if pred(t) {
				trackers = append(trackers, t)
			}
		}
		if len(trackers) == 0 {
			continue
		}
		SortByTitle(trackers)
		out = append(out, models.TrackerCategory{Title: category.Title, Trackers: trackers})
	}
	return out
}

// SortByTitle sorts trackers in place by title, keeping ties in order.
func SortByTitle(trackers []models.Tracker) {
	sort.SliceStable(trackers, func(i, j int) bool {
		return trackers[i].Title < trackers[j].Title
	})
}
