package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// Connect opens a postgres connection pool and verifies it with a ping.
// maxOpen and maxIdle bound the pool; the console shell runs fine on the
// defaults, the API tunes them via DB_MAX_OPEN_CONNS / DB_MAX_IDLE_CONNS.
func Connect(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
