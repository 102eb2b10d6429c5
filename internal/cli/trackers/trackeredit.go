package trackers

import (
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/draft"
)

type TrackerEditCmd struct {
	Ref      string `arg:"" help:"Tracker ID or title."`
	Title    string `help:"New title."`
	Category string `help:"Move to this category." short:"c"`
	Schedule string `help:"New comma-separated weekdays (habits only)." short:"s"`
	Color    string `help:"New palette color, by hex value or index."`
	Emoji    string `help:"New palette emoji, by value or index."`
}

func (c *TrackerEditCmd) Run(ctx *cli.Context) error {
	existing, category, err := ctx.ResolveTracker(c.Ref)
	if err != nil {
		return err
	}

	d := draft.FromTracker(existing, category)
	if err := fillDraft(d, c.Title, c.Category, c.Schedule, c.Color, c.Emoji); err != nil {
		return err
	}
	updated, target, err := d.Apply(existing)
	if err != nil {
		return err
	}
	if err := ctx.Session.EditTracker(updated, target); err != nil {
		return err
	}

	ctx.Printf("Updated tracker: %s\n", updated.Title)
	return nil
}

type TrackerPinCmd struct {
	Ref string `arg:"" help:"Tracker ID or title."`
}

func (c *TrackerPinCmd) Run(ctx *cli.Context) error {
	return setPinned(ctx, c.Ref, true)
}

type TrackerUnpinCmd struct {
	Ref string `arg:"" help:"Tracker ID or title."`
}

func (c *TrackerUnpinCmd) Run(ctx *cli.Context) error {
	return setPinned(ctx, c.Ref, false)
}

func setPinned(ctx *cli.Context, ref string, pinned bool) error {
	t, _, err := ctx.ResolveTracker(ref)
	if err != nil {
		return err
	}
	if err := ctx.Session.SetPinned(t.ID, pinned); err != nil {
		return err
	}
	if pinned {
		ctx.Printf("Pinned tracker: %s\n", t.Title)
	} else {
		ctx.Printf("Unpinned tracker: %s\n", t.Title)
	}
	return nil
}
