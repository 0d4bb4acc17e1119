package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/sharetube/syncroom/internal/repository/room"
	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS registrations (
		room       TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS dumps (
		room       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS library (
		room    TEXT NOT NULL,
		id      TEXT NOT NULL,
		title   TEXT NOT NULL,
		seconds INTEGER NOT NULL,
		type    TEXT NOT NULL,
		PRIMARY KEY (room, id)
	)`,
	`CREATE TABLE IF NOT EXISTS ranks (
		room TEXT NOT NULL,
		name TEXT NOT NULL,
		level INTEGER NOT NULL,
		PRIMARY KEY (room, name)
	)`,
	`CREATE TABLE IF NOT EXISTS bans (
		room   TEXT NOT NULL,
		ip     TEXT NOT NULL,
		name   TEXT NOT NULL,
		banner TEXT NOT NULL,
		PRIMARY KEY (room, ip)
	)`,
}

type repo struct {
	db *sqlx.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*repo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps the pragmas in effect for every query
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &repo{db: db}, nil
}

func (r repo) Close() error {
	return r.db.Close()
}

func (r repo) IsRegistered(ctx context.Context, roomName string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM registrations WHERE room = ?`, roomName); err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r repo) Register(ctx context.Context, roomName string) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO registrations (room) VALUES (?) ON CONFLICT (room) DO NOTHING`, roomName)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return room.ErrAlreadyRegistered
	}

	return nil
}

func (r repo) LoadDump(ctx context.Context, roomName string) ([]byte, error) {
	var data []byte
	if err := r.db.GetContext(ctx, &data, `SELECT data FROM dumps WHERE room = ?`, roomName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrDumpNotFound
		}

		return nil, err
	}

	return data, nil
}

func (r repo) SaveDump(ctx context.Context, params *room.SaveDumpParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dumps (room, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (room) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		params.RoomName, params.Data,
	)
	return err
}

func (r repo) LoadLibrary(ctx context.Context, roomName string) ([]room.LibraryEntry, error) {
	var entries []room.LibraryEntry
	if err := r.db.SelectContext(ctx, &entries, `SELECT id, title, seconds, type FROM library WHERE room = ? ORDER BY id`, roomName); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r repo) AddToLibrary(ctx context.Context, params *room.AddToLibraryParams) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO library (room, id, title, seconds, type) VALUES (:room, :id, :title, :seconds, :type)
		ON CONFLICT (room, id) DO UPDATE SET title = excluded.title, seconds = excluded.seconds, type = excluded.type`,
		map[string]any{
			"room":    params.RoomName,
			"id":      params.Media.ID,
			"title":   params.Media.Title,
			"seconds": params.Media.Seconds,
			"type":    params.Media.Type,
		},
	)
	return err
}

func (r repo) LoadRanks(ctx context.Context, roomName string) (map[string]int, error) {
	var rows []struct {
		Name string `db:"name"`
		Rank int    `db:"level"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT name, level FROM ranks WHERE room = ?`, roomName); err != nil {
		return nil, err
	}

	ranks := make(map[string]int, len(rows))
	for _, row := range rows {
		ranks[row.Name] = row.Rank
	}

	return ranks, nil
}

func (r repo) SetRank(ctx context.Context, params *room.SetRankParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ranks (room, name, level) VALUES (?, ?, ?)
		ON CONFLICT (room, name) DO UPDATE SET level = excluded.level`,
		params.RoomName, params.Name, params.Rank,
	)
	return err
}

func (r repo) LoadBans(ctx context.Context, roomName string) ([]room.BanRecord, error) {
	var bans []room.BanRecord
	if err := r.db.SelectContext(ctx, &bans, `SELECT ip, name, banner FROM bans WHERE room = ? ORDER BY ip`, roomName); err != nil {
		return nil, err
	}

	return bans, nil
}

func (r repo) SetBan(ctx context.Context, params *room.SetBanParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bans (room, ip, name, banner) VALUES (?, ?, ?, ?)
		ON CONFLICT (room, ip) DO UPDATE SET name = excluded.name, banner = excluded.banner`,
		params.RoomName, params.Ban.IP, params.Ban.Name, params.Ban.Banner,
	)
	return err
}

func (r repo) RemoveBan(ctx context.Context, params *room.RemoveBanParams) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bans WHERE room = ? AND ip = ?`, params.RoomName, params.IP)
	return err
}
