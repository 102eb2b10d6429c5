package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tracker/internal/cli"
	"github.com/julianstephens/tracker/internal/cli/backups"
	"github.com/julianstephens/tracker/internal/cli/board"
	"github.com/julianstephens/tracker/internal/cli/categories"
	"github.com/julianstephens/tracker/internal/cli/system"
	"github.com/julianstephens/tracker/internal/cli/trackers"
	"github.com/julianstephens/tracker/internal/constants"
	apperrors "github.com/julianstephens/tracker/internal/errors"
	"github.com/julianstephens/tracker/internal/logger"
	"github.com/julianstephens/tracker/internal/storage"
	"github.com/julianstephens/tracker/internal/storage/sqlite"
	"github.com/julianstephens/tracker/internal/utils"
	"github.com/julianstephens/tracker/internal/view"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path, PostgreSQL connection string, 'keyring' or 'memory'. PostgreSQL credentials must NOT be embedded on the command line; use the OS keyring, ${env_conn} or .pgpass instead." type:"string" default:"${default_config}" env:"TRACKER_CONFIG"`
	Debug    bool   `help:"Log debug output to stderr." env:"TRACKER_DEBUG"`
	Timezone string `help:"IANA timezone used to decide calendar days (default: local)." env:"TRACKER_TIMEZONE"`

	Init     system.InitCmd         `cmd:"" help:"Initialize tracker storage."`
	Board    board.BoardCmd         `cmd:"" help:"Show the trackers for a day." default:"1"`
	Toggle   board.ToggleCmd        `cmd:"" help:"Mark or unmark a tracker as done for a day."`
	Watch    board.WatchCmd         `cmd:"" help:"Show the board and reprint it when the store changes."`
	Category categories.CategoryCmd `cmd:"" help:"Manage categories."`
	Tracker  trackers.TrackerCmd    `cmd:"" help:"Manage habits and events."`
	Backup   backups.BackupCmd      `cmd:"" help:"Manage SQLite database backups."`
	Keyring  system.KeyringCmd      `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and event tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"env_conn":       constants.EnvDBConnection,
		},
	)

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("invalid timezone %q: %v", CLI.Timezone, err))
		os.Exit(1)
	}

	store, err := system.OpenStore(system.ResolveConfig(CLI.Config), loc)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
	defer store.Close()

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir(store)}); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to initialize logger: %v", err))
	}

	appCtx := &cli.Context{
		Store:    store,
		Session:  view.NewSession(store),
		Location: loc,
	}

	if ctx.Command() != "init" {
		if err := store.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
		if err := appCtx.Session.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// configDir places logs next to a SQLite database, and under the default
// config directory for every other store.
func configDir(store storage.Provider) string {
	if _, ok := store.(*sqlite.Store); ok {
		return filepath.Dir(store.GetConfigPath())
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", constants.AppName)
	}
	return os.TempDir()
}
