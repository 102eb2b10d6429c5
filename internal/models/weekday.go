package models

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
	"time"
)

// Weekday is a day of the week numbered like time.Weekday (0=Sunday, 6=Saturday).
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DisplayWeekdays lists the weekdays in the order pickers and schedules show them.
var DisplayWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf returns the weekday of t in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return time.Weekday(d).String()
}

// ShortName returns the three-letter abbreviation, e.g. "Mon".
func (d Weekday) ShortName() string {
	if !d.Valid() {
		return "?"
	}
	return d.String()[:3]
}

// Schedule is a set of weekdays stored as a bitmask, bit n set for Weekday n.
// An empty schedule marks an irregular event.
type Schedule uint8

// EveryDay is the schedule containing all seven weekdays.
const EveryDay Schedule = 1<<7 - 1

func NewSchedule(days ...Weekday) Schedule {
	var s Schedule
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func (s Schedule) Contains(d Weekday) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

func (s Schedule) With(d Weekday) Schedule {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d)
}

func (s Schedule) Without(d Weekday) Schedule {
	if !d.Valid() {
		return s
	}
	return s &^ (1 << uint(d))
}

func (s Schedule) IsEmpty() bool {
	return s&EveryDay == 0
}

func (s Schedule) Len() int {
	return bits.OnesCount8(uint8(s & EveryDay))
}

// Days returns the members in ordinal order (Sunday first).
func (s Schedule) Days() []Weekday {
	days := make([]Weekday, 0, s.Len())
	for d := Sunday; d <= Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// String renders the schedule Monday first, e.g. "Mon, Wed, Fri".
func (s Schedule) String() string {
	if s.IsEmpty() {
		return "none"
	}
	if s&EveryDay == EveryDay {
		return "every day"
	}
	var names []string
	for _, d := range DisplayWeekdays {
		if s.Contains(d) {
			names = append(names, d.ShortName())
		}
	}
	return strings.Join(names, ", ")
}

// MarshalJSON encodes the schedule as an array of weekday ordinals.
func (s Schedule) MarshalJSON() ([]byte, error) {
	days := s.Days()
	ords := make([]int, len(days))
	for i, d := range days {
		ords[i] = int(d)
	}
	return json.Marshal(ords)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var ords []int
	if err := json.Unmarshal(data, &ords); err != nil {
		return err
	}
	var out Schedule
	for _, o := range ords {
		d := Weekday(o)
		if !d.Valid() {
			return fmt.Errorf("invalid weekday ordinal %d", o)
		}
		out = out.With(d)
	}
	*s = out
	return nil
}
