package models

import "time"

// Tracker is a habit (non-empty schedule) or an irregular event (empty schedule).
// Trackers are replaced wholesale by ID rather than mutated.
type Tracker struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Color     string     `json:"color"`
	Emoji     string     `json:"emoji"`
	Schedule  Schedule   `json:"schedule"`
	IsPinned  bool       `json:"is_pinned"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (t Tracker) IsEvent() bool {
	return t.Schedule.IsEmpty()
}

func (t Tracker) IsDeleted() bool {
	return t.DeletedAt != nil
}

type TrackerCategory struct {
	Title    string    `json:"title"`
	Trackers []Tracker `json:"trackers"`
}

// TrackerRecord marks a tracker complete on one calendar day.
type TrackerRecord struct {
	TrackerID string    `json:"tracker_id"`
	Date      time.Time `json:"date"`
}

// Day returns the record date truncated to midnight in its own location.
func (r TrackerRecord) Day() time.Time {
	y, m, d := r.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Date.Location())
}
