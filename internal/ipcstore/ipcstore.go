// Package ipcstore is the edge agent's local configuration store: the
// cameras an operator has pinned via set_ipc_info/del_ipc_info (MQTT
// commands 103/104), persisted across restarts in a small SQLite file on
// the edge device itself — there is no server round-trip for this state.
package ipcstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Info is one operator-pinned camera entry.
type Info struct {
	IP   string
	MAC  string
	Name string
}

// Store wraps a single SQLite file. It is safe for concurrent use; every
// method goes through *sql.DB's own connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ipcstore: open: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ipc_info (
			ip   TEXT PRIMARY KEY,
			mac  TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT ''
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("ipcstore: schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set upserts an Info entry keyed by IP.
func (s *Store) Set(ctx context.Context, info Info) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ipc_info (ip, mac, name) VALUES (?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET mac = excluded.mac, name = excluded.name`,
		info.IP, info.MAC, info.Name)
	return err
}

// Delete removes the entry for ip, if any. Deleting a missing entry is not
// an error, matching set_ipc_info/del_ipc_info's idempotent wire contract.
func (s *Store) Delete(ctx context.Context, ip string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ipc_info WHERE ip = ?`, ip)
	return err
}
