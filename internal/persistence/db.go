// Package persistence stores games in SQLite: the full game state, a ledger
// of settled days and the event log.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a game does not exist.
var ErrNotFound = errors.New("game not found")

// DB wraps a SQLite connection for game persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; SQLite serializes anyway.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Debug("database opened", "path", path)
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		day INTEGER NOT NULL,
		cash TEXT NOT NULL,
		game_over INTEGER NOT NULL,
		active_store INTEGER NOT NULL,
		next_store_id INTEGER NOT NULL,
		next_loan_id INTEGER NOT NULL,
		climate TEXT NOT NULL,
		trend REAL NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stores (
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		employees INTEGER NOT NULL,
		base_customers INTEGER NOT NULL,
		rent TEXT NOT NULL,
		PRIMARY KEY (game_id, id)
	);

	CREATE TABLE IF NOT EXISTS inventory (
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		store_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		retail_price TEXT NOT NULL,
		PRIMARY KEY (game_id, store_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS loans (
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		id INTEGER NOT NULL,
		type INTEGER NOT NULL,
		principal TEXT NOT NULL,
		balance TEXT NOT NULL,
		rate REAL NOT NULL,
		term_days INTEGER NOT NULL,
		days_remaining INTEGER NOT NULL,
		PRIMARY KEY (game_id, id)
	);

	CREATE TABLE IF NOT EXISTS holdings (
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		shares INTEGER NOT NULL,
		avg_price TEXT NOT NULL,
		dividends TEXT NOT NULL,
		PRIMARY KEY (game_id, symbol)
	);

	CREATE TABLE IF NOT EXISTS stock_prices (
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		type INTEGER NOT NULL,
		price TEXT NOT NULL,
		base_price TEXT NOT NULL,
		pending TEXT NOT NULL,
		history_json TEXT NOT NULL,
		PRIMARY KEY (game_id, symbol)
	);

	CREATE TABLE IF NOT EXISTS day_results (
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		day INTEGER NOT NULL,
		revenue TEXT NOT NULL,
		expenses TEXT NOT NULL,
		interest TEXT NOT NULL,
		dividends TEXT NOT NULL,
		penalties TEXT NOT NULL,
		units_sold INTEGER NOT NULL,
		net_profit TEXT NOT NULL,
		cash_after TEXT NOT NULL,
		climate TEXT NOT NULL,
		bankrupt INTEGER NOT NULL,
		PRIMARY KEY (game_id, day)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		day INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_game_day ON events(game_id, day);
	CREATE INDEX IF NOT EXISTS idx_games_updated ON games(updated_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key yields "" and no error.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
