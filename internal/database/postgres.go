package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresDatabase implements the Database interface for PostgreSQL using
// the pgx stdlib driver.
type PostgresDatabase struct {
	connString string
	db         *sql.DB
}

func NewPostgresDatabase(connString string) *PostgresDatabase {
	return &PostgresDatabase{connString: connString}
}

func (p *PostgresDatabase) Open() error {
	db, err := sql.Open("pgx", p.connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)
	p.db = db
	return nil
}

func (p *PostgresDatabase) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDatabase) Ping() error {
	if p.db == nil {
		return fmt.Errorf("database not connected")
	}
	return p.db.Ping()
}

func (p *PostgresDatabase) GetDB() *sql.DB {
	return p.db
}

func (p *PostgresDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return p.db.Query(query, args...)
}

func (p *PostgresDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return p.db.QueryRow(query, args...)
}

func (p *PostgresDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return p.db.Exec(query, args...)
}

func (p *PostgresDatabase) Begin() (*sql.Tx, error) {
	return p.db.Begin()
}

// Rebind converts '?' placeholders to $1, $2, ...
func (p *PostgresDatabase) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			fmt.Fprintf(&b, "$%d", n)
			n++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

func (p *PostgresDatabase) Dialect() string {
	return DialectPostgres
}

func (p *PostgresDatabase) CreateTables() error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			balance BIGINT NOT NULL DEFAULT 0,
			last_bonus_ts BIGINT NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS bets (
			chat_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			covered TEXT NOT NULL,
			original_text TEXT NOT NULL DEFAULT '',
			placed_ts BIGINT NOT NULL,
			last_play_ts BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (chat_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS last_bets (
			chat_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			covered TEXT NOT NULL,
			original_text TEXT NOT NULL DEFAULT '',
			settled_ts BIGINT NOT NULL,
			PRIMARY KEY (chat_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			number INTEGER NOT NULL,
			ts BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_chat_ts ON results (chat_id, ts DESC);`,
	} {
		if _, err := p.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
