package board

import (
	"fmt"
	"io"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/view"
)

type BoardCmd struct {
	Date   string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Search string `help:"Only show trackers whose title contains this text." short:"q"`
}

func (c *BoardCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	st := ctx.Session.GetViewState(date, c.Search)
	Render(ctx.Writer(), st)
	return st.Err
}

// Render prints a board: one block per section, one line per tracker.
func Render(w io.Writer, st view.State) {
	fmt.Fprintf(w, "%s\n", st.Date.Format(constants.DateFormat))

	if st.IsEmpty() {
		fmt.Fprintf(w, "  %s\n", emptyMessage(st))
		return
	}

	for _, sec := range st.Sections {
		fmt.Fprintf(w, "\n%s\n", sec.Title)
		for _, row := range sec.Rows {
			fmt.Fprintf(w, "  %s\n", formatRow(row))
		}
	}
}

func formatRow(row view.Row) string {
	box := "[ ]"
	if row.Completed {
		box = "[x]"
	}
	if !row.Enabled {
		box = "[-]"
	}
	line := fmt.Sprintf("%s %s %s  %s", box, row.Tracker.Emoji, row.Tracker.Title, row.DayLabel)
	if row.Streak > 1 {
		line += fmt.Sprintf("  streak %d", row.Streak)
	}
	return line
}

func emptyMessage(st view.State) string {
	switch st.Empty {
	case view.EmptyNothingFound:
		return fmt.Sprintf("Nothing found for %q.", st.SearchText)
	case view.EmptyLoadFailed:
		return "Trackers could not be loaded."
	default:
		return "No trackers for this day."
	}
}
