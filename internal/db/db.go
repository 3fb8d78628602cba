package db

import (
	"database/sql"
	"time"
)

type DB struct {
	*sql.DB
}

// Tune applies the shared pool settings for the single long-lived pool.
func (d *DB) Tune() {
	d.SetMaxOpenConns(25)
	d.SetMaxIdleConns(5)
	d.SetConnMaxLifetime(5 * time.Minute)
}
