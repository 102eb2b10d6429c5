// Package backup keeps rotating snapshots of a SQLite tracker database.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/logger"
)

const (
	// DefaultRetention is the number of snapshots kept after rotation.
	DefaultRetention = 14
	DirName          = "backups"

	filePrefix = constants.AppName + "-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

// Snapshot describes one backup file.
type Snapshot struct {
	Path  string
	Taken time.Time
	Size  int64

	seq int
}

func (s Snapshot) Name() string {
	return filepath.Base(s.Path)
}

type Manager struct {
	dbPath    string
	dir       string
	retention int
	now       func() time.Time
}

// NewManager manages snapshots of dbPath in a "backups" directory next to it.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		dir:       filepath.Join(filepath.Dir(dbPath), DirName),
		retention: DefaultRetention,
		now:       time.Now,
	}
}

// WithRetention changes how many snapshots rotation keeps. n < 1 is ignored.
func (m *Manager) WithRetention(n int) *Manager {
	if n > 0 {
		m.retention = n
	}
	return m
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a snapshot of the database and rotates old ones out.
func (m *Manager) Create() (Snapshot, error) {
	snap, err := m.snapshot()
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	logger.Info("Backup created", "path", snap.Path)
	return snap, nil
}

func (m *Manager) snapshot() (Snapshot, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return Snapshot{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	taken := m.now()
	path, err := m.freePath(taken)
	if err != nil {
		return Snapshot{}, err
	}

	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := checkSchema(db); err != nil {
		return Snapshot{}, fmt.Errorf("database is not a tracker database: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", path); err != nil {
		return Snapshot{}, fmt.Errorf("failed to write backup: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: path, Taken: taken, Size: info.Size()}, nil
}

// freePath names a snapshot after its timestamp, appending a counter when
// several are taken within the same second.
func (m *Manager) freePath(taken time.Time) (string, error) {
	stamp := taken.Format(stampFmt)
	for n := 0; n < 100; n++ {
		name := filePrefix + stamp + fileSuffix
		if n > 0 {
			name = fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, fileSuffix)
		}
		path := filepath.Join(m.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// List returns the snapshots in the backup directory, newest first.
// Files that do not follow the snapshot naming scheme are ignored.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var snaps []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		taken, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Path:  filepath.Join(m.dir, entry.Name()),
			Taken: taken,
			Size:  info.Size(),
			seq:   seq,
		})
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].Taken.Equal(snaps[j].Taken) {
			return snaps[i].Taken.After(snaps[j].Taken)
		}
		return snaps[i].seq > snaps[j].seq
	})
	return snaps, nil
}

// parseName reads the timestamp and same-second counter out of a snapshot
// file name.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)

	seq := 0
	if len(rest) > len(stampFmt) {
		n, err := strconv.Atoi(strings.TrimPrefix(rest[len(stampFmt):], "-"))
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		rest = rest[:len(stampFmt)]
	}

	taken, err := time.ParseInLocation(stampFmt, rest, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return taken, seq, true
}

func (m *Manager) rotate() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := m.retention; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", snaps[i].Name(), err)
		}
	}
	return nil
}

// Resolve turns a user-supplied path or bare snapshot name into a path.
func (m *Manager) Resolve(ref string) (string, error) {
	if _, err := os.Stat(ref); err == nil {
		return filepath.Abs(ref)
	}
	if !filepath.IsAbs(ref) {
		path := filepath.Join(m.dir, ref)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("backup file not found: tried %s and %s", ref, m.dir)
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first, outside rotation. The caller must close
// every connection to the database beforehand.
func (m *Manager) Restore(path string) (Snapshot, error) {
	if err := verify(path); err != nil {
		return Snapshot{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous Snapshot
	if _, err := os.Stat(m.dbPath); err == nil {
		previous, err = m.snapshot()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return Snapshot{}, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return Snapshot{}, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Database restored", "from", path)
	return previous, nil
}

func verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return checkSchema(db)
}

// checkSchema requires the tables a tracker database always has.
func checkSchema(db *sql.DB) error {
	for _, table := range []string{"categories", "trackers", "tracker_records"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("missing table %s", table)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
