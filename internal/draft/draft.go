// Package draft collects the choices made while creating a tracker and turns
// them into a models.Tracker once they are complete.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/models"
)

type Kind int

const (
	KindHabit Kind = iota
	KindEvent
)

func (k Kind) String() string {
	if k == KindEvent {
		return "event"
	}
	return "habit"
}

var (
	ErrTitleTooLong  = fmt.Errorf("title exceeds %d characters", constants.MaxTitleLength)
	ErrOutOfPalette  = errors.New("palette index out of range")
	ErrNotApplicable = errors.New("events have no schedule")
)

// Draft is the state of one creation flow. Color and emoji are palette
// indexes, -1 while unpicked.
type Draft struct {
	kind          Kind
	title         string
	categoryTitle string
	schedule      models.Schedule
	colorIndex    int
	emojiIndex    int
}

func New(kind Kind) *Draft {
	return &Draft{kind: kind, colorIndex: -1, emojiIndex: -1}
}

// FromTracker seeds a draft for editing an existing tracker. Colors and
// emoji outside the palettes are left unpicked.
func FromTracker(t models.Tracker, categoryTitle string) *Draft {
	kind := KindHabit
	if t.IsEvent() {
		kind = KindEvent
	}
	return &Draft{
		kind:          kind,
		title:         t.Title,
		categoryTitle: categoryTitle,
		schedule:      t.Schedule,
		colorIndex:    indexOf(constants.ColorPalette, t.Color),
		emojiIndex:    indexOf(constants.EmojiPalette, t.Emoji),
	}
}

func indexOf(palette []string, v string) int {
	for i, p := range palette {
		if strings.EqualFold(p, v) {
			return i
		}
	}
	return -1
}

func (d *Draft) Kind() Kind { return d.kind }
func (d *Draft) Title() string { return d.title }
func (d *Draft) CategoryTitle() string { return d.categoryTitle }
func (d *Draft) Schedule() models.Schedule { return d.schedule }

// SetTitle trims title and rejects it past MaxTitleLength runes. The
// previous title is kept on error.
func (d *Draft) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	d.title = title
	return nil
}

func (d *Draft) SelectCategory(title string) {
	d.categoryTitle = strings.TrimSpace(title)
}

// ToggleWeekday adds or removes day from a habit's schedule.
func (d *Draft) ToggleWeekday(day models.Weekday) error {
	if d.kind == KindEvent {
		return ErrNotApplicable
	}
	if d.schedule.Contains(day) {
		d.schedule = d.schedule.Without(day)
	} else {
		d.schedule = d.schedule.With(day)
	}
	return nil
}

func (d *Draft) SetSchedule(s models.Schedule) error {
	if d.kind == KindEvent && !s.IsEmpty() {
		return ErrNotApplicable
	}
	d.schedule = s
	return nil
}

func (d *Draft) PickColor(i int) error {
	if i < 0 || i >= len(constants.ColorPalette) {
		return fmt.Errorf("%w: color %d", ErrOutOfPalette, i)
	}
	d.colorIndex = i
	return nil
}

func (d *Draft) PickEmoji(i int) error {
	if i < 0 || i >= len(constants.EmojiPalette) {
		return fmt.Errorf("%w: emoji %d", ErrOutOfPalette, i)
	}
	d.emojiIndex = i
	return nil
}

// Missing names the fields still required before Build succeeds.
func (d *Draft) Missing() []string {
	var missing []string
	if d.title == "" {
		missing = append(missing, "title")
	}
	if d.categoryTitle == "" {
		missing = append(missing, "category")
	}
	if d.kind == KindHabit {
		if d.schedule.IsEmpty() {
			missing = append(missing, "schedule")
		}
		if d.colorIndex < 0 {
			missing = append(missing, "color")
		}
		if d.emojiIndex < 0 {
			missing = append(missing, "emoji")
		}
	}
	return missing
}

func (d *Draft) Ready() bool {
	return len(d.Missing()) == 0
}

// Build returns a new tracker with a fresh ID and the category it belongs in.
func (d *Draft) Build(now time.Time) (models.Tracker, string, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return models.Tracker{}, "", fmt.Errorf("%w: missing %s", apperrors.ErrInvalidTracker, strings.Join(missing, ", "))
	}

	t := models.Tracker{
		ID:        uuid.New().String(),
		Title:     d.title,
		Color:     constants.DefaultEventColor,
		Emoji:     constants.DefaultEventEmoji,
		CreatedAt: now,
	}
	if d.colorIndex >= 0 {
		t.Color = constants.ColorPalette[d.colorIndex]
	}
	if d.emojiIndex >= 0 {
		t.Emoji = constants.EmojiPalette[d.emojiIndex]
	}
	if d.kind == KindHabit {
		t.Schedule = d.schedule
	}
	return t, d.categoryTitle, nil
}

// Apply overlays the draft onto existing, keeping its ID, pin and creation time.
func (d *Draft) Apply(existing models.Tracker) (models.Tracker, string, error) {
	built, category, err := d.Build(existing.CreatedAt)
	if err != nil {
		return models.Tracker{}, "", err
	}
	built.ID = existing.ID
	built.IsPinned = existing.IsPinned
	if d.colorIndex < 0 && d.kind == KindEvent {
		built.Color = existing.Color
	}
	if d.emojiIndex < 0 && d.kind == KindEvent {
		built.Emoji = existing.Emoji
	}
	return built, category, nil
}
