// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/store.go
// Summary: SQLite store for window modes and tree snapshots.
//
// The store serves two purposes:
//   - remembering the mode of each window (by stable sequence and class) so
//     a window keeps floating across reloads and restarts
//   - keeping recent tree snapshots for the dump command

package store

import (
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/tilewm/tree"
)

// ErrNoSnapshot is returned by Latest when nothing has been saved yet.
var ErrNoSnapshot = errors.New("store: no snapshot")

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS windows (
    seq INTEGER NOT NULL,
    class TEXT NOT NULL,
    monitor_key TEXT NOT NULL,
    mode TEXT NOT NULL,
    updated_at INTEGER NOT NULL,      -- UnixNano
    PRIMARY KEY (seq, class)
);

CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    taken_at INTEGER NOT NULL,        -- UnixNano
    hash TEXT NOT NULL,
    body TEXT NOT NULL                -- JSON tree capture
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken ON snapshots(taken_at);
`

// DefaultKeepSnapshots is the number of snapshots retained.
const DefaultKeepSnapshots = 50

// Store persists captures. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	keep int

	mu       sync.Mutex
	lastHash string
	lastSave int64
}

// WindowRecord is one remembered window.
type WindowRecord struct {
	Sequence   uint32    `json:"sequence" yaml:"sequence"`
	Class      string    `json:"class" yaml:"class"`
	MonitorKey string    `json:"monitor" yaml:"monitor"`
	Mode       string    `json:"mode" yaml:"mode"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// Snapshot is a stored tree capture.
type Snapshot struct {
	TakenAt time.Time    `json:"taken_at" yaml:"taken_at"`
	Hash    string       `json:"hash" yaml:"hash"`
	Tree    tree.Capture `json:"tree" yaml:"tree"`
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, keep: DefaultKeepSnapshots}, nil
}

func checkSchema(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		if err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("store schema %d is newer than supported %d", version, schemaVersion)
	}
	return nil
}

// SetKeep changes how many snapshots are retained.
func (s *Store) SetKeep(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.keep = n
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func hashCapture(body []byte) string {
	sum := sha1.Sum(body)
	return hex.EncodeToString(sum[:])
}

// Save records c. Captures identical to the previous one are skipped.
func (s *Store) Save(c tree.Capture) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode capture: %w", err)
	}
	hash := hashCapture(body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if hash == s.lastHash {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixNano()
	if now <= s.lastSave {
		now = s.lastSave + 1
	}
	upsert, err := tx.Prepare(`
INSERT INTO windows (seq, class, monitor_key, mode, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(seq, class) DO UPDATE SET
    monitor_key = excluded.monitor_key,
    mode = excluded.mode,
    updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsert.Close()

	for _, ws := range c.Workspaces {
		for _, mon := range ws.Monitors {
			for _, w := range mon.Windows {
				if _, err := upsert.Exec(int64(w.Sequence), w.Class, mon.Key, w.Mode, now); err != nil {
					return fmt.Errorf("save window %d: %w", w.Sequence, err)
				}
			}
		}
	}

	if _, err := tx.Exec("INSERT INTO snapshots (taken_at, hash, body) VALUES (?, ?, ?)", now, hash, string(body)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if _, err := tx.Exec(`
DELETE FROM snapshots WHERE id NOT IN (
    SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
)`, s.keep); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	// Windows absent from every retained snapshot are forgotten.
	if _, err := tx.Exec(`
DELETE FROM windows WHERE updated_at < (SELECT COALESCE(MIN(taken_at), 0) FROM snapshots)`); err != nil {
		return fmt.Errorf("prune windows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.lastHash = hash
	s.lastSave = now
	return nil
}

// Recall returns the last mode stored for the window.
func (s *Store) Recall(seq uint32, class string) (tree.Mode, bool) {
	var raw string
	err := s.db.QueryRow("SELECT mode FROM windows WHERE seq = ? AND class = ?", int64(seq), class).Scan(&raw)
	if err != nil {
		return tree.ModeNone, false
	}
	mode, err := tree.ParseMode(raw)
	if err != nil || mode == tree.ModeNone {
		return tree.ModeNone, false
	}
	return mode, true
}

// Windows lists remembered windows, most recently updated first.
func (s *Store) Windows() ([]WindowRecord, error) {
	rows, err := s.db.Query("SELECT seq, class, monitor_key, mode, updated_at FROM windows ORDER BY updated_at DESC, seq")
	if err != nil {
		return nil, fmt.Errorf("query windows: %w", err)
	}
	defer rows.Close()

	var out []WindowRecord
	for rows.Next() {
		var (
			rec     WindowRecord
			seq     int64
			updated int64
		)
		if err := rows.Scan(&seq, &rec.Class, &rec.MonitorKey, &rec.Mode, &updated); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		rec.Sequence = uint32(seq)
		rec.UpdatedAt = time.Unix(0, updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Latest returns the most recent snapshot.
func (s *Store) Latest() (Snapshot, error) {
	var (
		snap  Snapshot
		taken int64
		body  string
	)
	err := s.db.QueryRow("SELECT taken_at, hash, body FROM snapshots ORDER BY id DESC LIMIT 1").Scan(&taken, &snap.Hash, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, ErrNoSnapshot
	}
	if err != nil {
		return snap, fmt.Errorf("query snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &snap.Tree); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.TakenAt = time.Unix(0, taken)
	return snap, nil
}

// SnapshotCount returns the number of retained snapshots.
func (s *Store) SnapshotCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}
