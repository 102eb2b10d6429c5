package trackers

import (
	"github.com/julianstephens/tracker/internal/cli"
)

type TrackerDeleteCmd struct {
	Ref string `arg:"" help:"Tracker ID or title."`
}

func (c *TrackerDeleteCmd) Run(ctx *cli.Context) error {
	t, _, err := ctx.ResolveTracker(c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Session.DeleteTracker(t.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted tracker: %s (%s)\n", t.Title, t.ID)
	return nil
}

// TrackerRestoreCmd takes an ID only; deleted trackers are not loaded, so
// there is no title to match against.
type TrackerRestoreCmd struct {
	ID string `arg:"" help:"ID of the deleted tracker."`
}

func (c *TrackerRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.RestoreTracker(c.ID); err != nil {
		return err
	}
	ctx.Printf("Restored tracker: %s\n", c.ID)
	return nil
}
