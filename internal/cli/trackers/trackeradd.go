package trackers

import (
	"fmt"
	"time"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/draft"
	"github.com/julianstephens/tracker/internal/utils"
)

type TrackerCmd struct {
	Add     TrackerAddCmd     `cmd:"" help:"Add a habit tracker with a weekly schedule."`
	Event   TrackerEventCmd   `cmd:"" help:"Add a one-off event tracker."`
	Edit    TrackerEditCmd    `cmd:"" help:"Edit an existing tracker."`
	Pin     TrackerPinCmd     `cmd:"" help:"Pin a tracker to the top of the board."`
	Unpin   TrackerUnpinCmd   `cmd:"" help:"Unpin a tracker."`
	Delete  TrackerDeleteCmd  `cmd:"" help:"Delete a tracker (soft delete)."`
	Restore TrackerRestoreCmd `cmd:"" help:"Restore a deleted tracker."`
}

type TrackerAddCmd struct {
	Title    string `arg:"" help:"Tracker title."`
	Category string `help:"Category the tracker belongs to." required:"" short:"c"`
	Schedule string `help:"Comma-separated weekdays (e.g., mon,wed,fri or daily)." required:"" short:"s"`
	Color    string `help:"Palette color, by hex value or index." default:"0"`
	Emoji    string `help:"Palette emoji, by value or index." default:"0"`
}

func (c *TrackerAddCmd) Run(ctx *cli.Context) error {
	d := draft.New(draft.KindHabit)
	if err := fillDraft(d, c.Title, c.Category, c.Schedule, c.Color, c.Emoji); err != nil {
		return err
	}
	return create(ctx, d)
}

type TrackerEventCmd struct {
	Title    string `arg:"" help:"Event title."`
	Category string `help:"Category the event belongs to." required:"" short:"c"`
}

func (c *TrackerEventCmd) Run(ctx *cli.Context) error {
	d := draft.New(draft.KindEvent)
	if err := fillDraft(d, c.Title, c.Category, "", "", ""); err != nil {
		return err
	}
	return create(ctx, d)
}

// fillDraft applies the non-empty flag values to d.
func fillDraft(d *draft.Draft, title, category, schedule, color, emoji string) error {
	if title != "" {
		if err := d.SetTitle(title); err != nil {
			return err
		}
	}
	if category != "" {
		d.SelectCategory(category)
	}
	if schedule != "" {
		s, err := utils.ParseSchedule(schedule)
		if err != nil {
			return err
		}
		if err := d.SetSchedule(s); err != nil {
			return err
		}
	}
	if color != "" {
		i, err := cli.PaletteIndex(constants.ColorPalette, color)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		if err := d.PickColor(i); err != nil {
			return err
		}
	}
	if emoji != "" {
		i, err := cli.PaletteIndex(constants.EmojiPalette, emoji)
		if err != nil {
			return fmt.Errorf("invalid emoji: %w", err)
		}
		if err := d.PickEmoji(i); err != nil {
			return err
		}
	}
	return nil
}

func create(ctx *cli.Context, d *draft.Draft) error {
	tracker, category, err := d.Build(time.Now())
	if err != nil {
		return err
	}
	if err := ctx.Session.CreateTracker(tracker, category); err != nil {
		return err
	}
	ctx.Printf("Added %s: %s %s (%s)\n", d.Kind(), tracker.Emoji, tracker.Title, tracker.ID)
	return nil
}
