package categories

import (
	"github.com/julianstephens/tracker/internal/cli"
)

type CategoryCmd struct {
	Add  CategoryAddCmd  `cmd:"" help:"Add a new category."`
	List CategoryListCmd `cmd:"" help:"List categories and their trackers."`
}

type CategoryAddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.CreateCategory(c.Title); err != nil {
		return err
	}
	ctx.Printf("Added category: %s\n", c.Title)
	return nil
}

type CategoryListCmd struct {
	Trackers bool `help:"Show the trackers in each category." short:"t"`
}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	categories := ctx.Session.Categories()
	if len(categories) == 0 {
		ctx.Printf("No categories found.\n")
		return nil
	}

	for _, category := range categories {
		ctx.Printf("%s (%d)\n", category.Title, len(category.Trackers))
		if !c.Trackers {
			continue
		}
		for _, t := range category.Trackers {
			pin := ""
			if t.IsPinned {
				pin = " [PINNED]"
			}
			ctx.Printf("  %s %s  %s  %s%s\n", t.Emoji, t.Title, cli.FormatSchedule(t), t.ID, pin)
		}
	}
	return nil
}
