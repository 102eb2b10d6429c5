package board

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/view"
)

type WatchCmd struct {
	Date   string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Search string `help:"Only show trackers whose title contains this text." short:"q"`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	w := ctx.Writer()
	ctx.Session.Subscribe(func(st view.State) {
		ctx.Printf("\n")
		Render(w, st)
	})

	Render(w, ctx.Session.GetViewState(date, c.Search))
	if err := ctx.Session.Watch(); err != nil {
		return err
	}
	defer ctx.Session.Close()
	logger.Info("Watching for changes", "store", ctx.Store.GetConfigPath())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	<-sig
	return nil
}
