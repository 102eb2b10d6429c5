package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/tracker/internal/logger"
)

func (s *Store) OnExternalUpdate(fn func()) {
	s.observers.Add(fn)
}

// SetWatchSchedule overrides the cron spec used to poll for changes. It has
// no effect on a watcher that is already running.
func (s *Store) SetWatchSchedule(spec string) {
	s.watchMu.Lock()
	s.watchSpec = spec
	s.watchMu.Unlock()
}

// StartWatching polls PRAGMA data_version on a dedicated connection. The
// value moves whenever any other connection commits, including other
// processes sharing the file.
func (s *Store) StartWatching() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if s.cron != nil {
		return nil
	}
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("failed to open watch connection: %w", err)
	}
	version, err := dataVersion(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read data_version: %w", err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.watchSpec, s.poll); err != nil {
		conn.Close()
		return fmt.Errorf("invalid watch schedule %q: %w", s.watchSpec, err)
	}

	s.watchConn = conn
	s.lastVersion = version
	s.cron = c
	c.Start()
	logger.Debug("Watching for external changes", "path", s.path, "schedule", s.watchSpec)
	return nil
}

func (s *Store) StopWatching() {
	s.watchMu.Lock()
	c, conn := s.cron, s.watchConn
	s.cron, s.watchConn = nil, nil
	s.watchMu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	if conn != nil {
		conn.Close()
	}
}

func (s *Store) poll() {
	s.watchMu.Lock()
	conn := s.watchConn
	if conn == nil {
		s.watchMu.Unlock()
		return
	}
	version, err := dataVersion(conn)
	if err != nil {
		s.watchMu.Unlock()
		logger.Warn("Failed to poll data_version", "error", err)
		return
	}
	changed := version != s.lastVersion
	s.lastVersion = version
	s.watchMu.Unlock()

	if changed {
		logger.Debug("External change detected", "data_version", version)
		s.observers.Fire()
	}
}

func dataVersion(conn *sql.Conn) (int64, error) {
	var v int64
	err := conn.QueryRowContext(context.Background(), "PRAGMA data_version").Scan(&v)
	return v, err
}
