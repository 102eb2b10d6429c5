package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/tracker/internal/models"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/utils"
	"github.com/julianstephens/tracker/internal/view"
)

type Context struct {
	Store    storage.Provider
	Session  *view.Session
	Location *time.Location
	Out      io.Writer
}

// Writer returns the command output stream, stdout unless Out is set.
func (c *Context) Writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// Today returns the current time in the configured timezone.
func (c *Context) Today() time.Time {
	return time.Now().In(c.location())
}

// ParseDate parses a YYYY-MM-DD date in the configured timezone. An empty
// string means today.
func (c *Context) ParseDate(s string) (time.Time, error) {
	if s == "" {
		return c.Today(), nil
	}
	d, err := utils.ParseDateInLocation(s, c.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// ResolveTracker finds a loaded tracker by ID, falling back to a
// case-insensitive title match. Ambiguous titles are an error.
func (c *Context) ResolveTracker(ref string) (models.Tracker, string, error) {
	if t, category, ok := c.Session.Tracker(ref); ok {
		return t, category, nil
	}

	matches := c.Session.FindByTitle(ref)
	switch len(matches) {
	case 0:
		return models.Tracker{}, "", fmt.Errorf("tracker %q not found", ref)
	case 1:
		t, category, _ := c.Session.Tracker(matches[0].ID)
		return t, category, nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return models.Tracker{}, "", fmt.Errorf("title %q matches %d trackers, use an id: %s", ref, len(matches), strings.Join(ids, ", "))
	}
}

// PaletteIndex resolves a palette entry given either its position or its value.
func PaletteIndex(palette []string, v string) (int, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n >= len(palette) {
			return 0, fmt.Errorf("palette index %d out of range (0-%d)", n, len(palette)-1)
		}
		return n, nil
	}
	for i, p := range palette {
		if strings.EqualFold(p, v) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q is not in the palette", v)
}

// FormatSchedule formats a habit schedule, or "event" for an event tracker.
func FormatSchedule(t models.Tracker) string {
	if t.IsEvent() {
		return "event"
	}
	return t.Schedule.String()
}
