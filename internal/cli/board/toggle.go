package board

import (
	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
)

type ToggleCmd struct {
	Ref  string `arg:"" help:"Tracker ID or title."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	t, _, err := ctx.ResolveTracker(c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Session.ToggleCompletion(t.ID, date); err != nil {
		return err
	}

	row, ok := ctx.Session.GetViewState(date, "").Row(t.ID)
	day := date.Format(constants.DateFormat)
	switch {
	case ok && row.Completed:
		ctx.Printf("Marked %q for %s (%s)\n", t.Title, day, row.DayLabel)
	default:
		ctx.Printf("Unmarked %q for %s\n", t.Title, day)
	}
	return nil
}
