package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDatabase implements the Database interface for SQLite.
type SQLiteDatabase struct {
	connString string
	db         *sql.DB
}

func NewSQLiteDatabase(connString string) *SQLiteDatabase {
	return &SQLiteDatabase{connString: connString}
}

func (s *SQLiteDatabase) Open() error {
	db, err := sql.Open("sqlite3", s.connString)
	if err != nil {
		return err
	}
	// SQLite serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent settlements.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) Ping() error {
	if s.db == nil {
		return fmt.Errorf("database not connected")
	}
	return s.db.Ping()
}

func (s *SQLiteDatabase) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}

func (s *SQLiteDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return s.db.QueryRow(query, args...)
}

func (s *SQLiteDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return s.db.Exec(query, args...)
}

func (s *SQLiteDatabase) Begin() (*sql.Tx, error) {
	return s.db.Begin()
}

// Rebind is a no-op for SQLite, which uses '?' natively.
func (s *SQLiteDatabase) Rebind(query string) string {
	return query
}

func (s *SQLiteDatabase) Dialect() string {
	return DialectSQLite
}

func (s *SQLiteDatabase) CreateTables() error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS users (
			"id" INTEGER NOT NULL PRIMARY KEY,
			"balance" INTEGER NOT NULL DEFAULT 0,
			"last_bonus_ts" INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS bets (
			"chat_id" INTEGER NOT NULL,
			"user_id" INTEGER NOT NULL,
			"amount" INTEGER NOT NULL,
			"covered" TEXT NOT NULL,
			"original_text" TEXT NOT NULL DEFAULT '',
			"placed_ts" INTEGER NOT NULL,
			"last_play_ts" INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (chat_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS last_bets (
			"chat_id" INTEGER NOT NULL,
			"user_id" INTEGER NOT NULL,
			"amount" INTEGER NOT NULL,
			"covered" TEXT NOT NULL,
			"original_text" TEXT NOT NULL DEFAULT '',
			"settled_ts" INTEGER NOT NULL,
			PRIMARY KEY (chat_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			"id" TEXT NOT NULL PRIMARY KEY,
			"chat_id" INTEGER NOT NULL,
			"number" INTEGER NOT NULL,
			"ts" INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_chat_ts ON results (chat_id, ts DESC);`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
