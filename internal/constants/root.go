package constants

import "time"

const (
	AppName            = "tracker"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tracker/tracker.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MaxTitleLength bounds tracker titles, counted in runes.
	MaxTitleLength = 38

	// PinnedSectionTitle is the heading of the synthetic section that collects pinned trackers.
	PinnedSectionTitle = "Pinned"

	// Storage selectors accepted by --config in addition to a SQLite path or PostgreSQL URL
	ConfigKeyring = "keyring"
	ConfigMemory  = "memory"

	// Environment variables
	EnvDBConnection = "TRACKER_DB_CONNECTION"

	// Change watching
	WatchSchedule    = "@every 2s"
	NotifyChannel    = "tracker_changes"
	ListenerMinRetry = 10 * time.Second
	ListenerMaxRetry = time.Minute
)
