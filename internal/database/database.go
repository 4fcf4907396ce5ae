package database

import "fmt"

// New opens a backend of the given type, pings it and creates the schema.
// The returned Database is ready for use and owned by the caller.
func New(dbType, connString string) (Database, error) {
	var db Database
	switch dbType {
	case DialectPostgres:
		db = NewPostgresDatabase(connString)
	case DialectSQLite, "":
		db = NewSQLiteDatabase(connString)
	default:
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}

	if err := db.Open(); err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
