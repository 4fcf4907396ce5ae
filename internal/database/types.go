package database

import "database/sql"

// Dialect names for the supported backends.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Database abstracts the relational backend so the stores can run on
// SQLite or PostgreSQL without caring which.
type Database interface {
	// Connection
	Open() error
	Close() error
	Ping() error
	GetDB() *sql.DB

	// Queries take '?' placeholders; Rebind translates them for the driver.
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
	Begin() (*sql.Tx, error)

	// Rebind converts '?' placeholders to the driver's format
	// ($N for PostgreSQL, unchanged for SQLite).
	Rebind(query string) string

	// Dialect reports which backend this is.
	Dialect() string

	// CreateTables creates the schema if it does not exist.
	CreateTables() error
}
