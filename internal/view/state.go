package view

import (
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/models"
)

// Phase is the lifecycle position of a Session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoaded
	PhaseFiltered
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoaded:
		return "loaded"
	case PhaseFiltered:
		return "filtered"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// EmptyReason explains why a State has no sections.
type EmptyReason int

const (
	EmptyNone EmptyReason = iota
	// EmptyNoTrackers: nothing is scheduled for the date.
	EmptyNoTrackers
	// EmptyNothingFound: trackers exist for the date but the search excluded all of them.
	EmptyNothingFound
	// EmptyLoadFailed: persisted data could not be read.
	EmptyLoadFailed
)

func (r EmptyReason) String() string {
	switch r {
	case EmptyNone:
		return "none"
	case EmptyNoTrackers:
		return "no trackers"
	case EmptyNothingFound:
		return "nothing found"
	case EmptyLoadFailed:
		return "load failed"
	default:
		return fmt.Sprintf("EmptyReason(%d)", int(r))
	}
}

// Row is one tracker as presented for the selected date.
type Row struct {
	Tracker         models.Tracker
	Completed       bool
	CompletionCount int
	DayLabel        string
	Streak          int
	// Enabled is false for dates after today; completion cannot be toggled then.
	Enabled bool
}

type Section struct {
	Title string
	Rows  []Row
}

// State is a render model recomputed from scratch on every change.
type State struct {
	Date       time.Time
	SearchText string
	Phase      Phase
	Sections   []Section
	Empty      EmptyReason
	// Err carries the load failure behind EmptyLoadFailed.
	Err error
}

func (s State) IsEmpty() bool {
	return len(s.Sections) == 0
}

// Row finds the row for trackerID.
func (s State) Row(trackerID string) (Row, bool) {
	for _, sec := range s.Sections {
		for _, r := range sec.Rows {
			if r.Tracker.ID == trackerID {
				return r, true
			}
		}
	}
	return Row{}, false
}

// DayLabel renders a completion count, e.g. "1 day" or "5 days".
func DayLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
