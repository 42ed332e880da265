
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("db: could not find record")
)

// Query timeouts
const (
	// Simple queries (SELECT single row, INSERT, UPDATE, DELETE)
	defaultQueryTimeout = 5 * time.Second
	// List queries (SELECT multiple rows)
	defaultListTimeout = 10 * time.Second
)

type DB struct {
	pool   *sql.DB
	driver string
}

// sqlDriverName maps the configured driver to the registered
// database/sql driver.
func sqlDriverName(driver string) string {
	switch driver {
	case "postgres", "postgresql":
		return "pgx"
	case "mariadb":
		return "mysql"
	default:
		return driver
	}
}

func NewPool(driverName string, dataSourceName string, maxOpenConns int, maxIdleConns int) (DB, error) {
	var db DB
	var err error

	db.driver = sqlDriverName(driverName)
	db.pool, err = sql.Open(db.driver, dataSourceName)
	if err != nil {
		return db, err
	}

	db.pool.SetMaxOpenConns(maxOpenConns)
	db.pool.SetMaxIdleConns(maxIdleConns)

	// Recycle connections to prevent stale ones piling up
	db.pool.SetConnMaxLifetime(time.Hour)
	db.pool.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func (db DB) Close() error {
	return db.pool.Close()
}

func (db DB) Ping() error {
	return db.pool.Ping()
}

// rebind converts '?' placeholders to the $N form for postgres.
// Queries in this package are written with '?'.
func (db DB) rebind(query string) string {
	if db.driver != "pgx" {
		return query
	}

	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteByte(query[i])
		}
	}

	return b.String()
}

// nullable maps an empty string to SQL NULL. Used for secret_id so the
// UNIQUE constraint only applies to assigned values.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func InitDB(driverName string, dataSourceName string) error {
	db, err := NewPool(driverName, dataSourceName, 1, 0)
	if err != nil {
		return err
	}
	defer db.Close()

	// Auto-increment primary keys are spelled differently per engine
	var idColumn string
	switch db.driver {
	case "pgx":
		idColumn = "id BIGSERIAL PRIMARY KEY"
	case "mysql":
		idColumn = "id BIGINT PRIMARY KEY AUTO_INCREMENT"
	default:
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	_, err = db.pool.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS pastes (
			%s,
			secret_id   VARCHAR(40)  UNIQUE,
			language    VARCHAR(64)  NOT NULL,
			file_name   VARCHAR(255) NOT NULL DEFAULT '',
			content     TEXT         NOT NULL,
			create_time BIGINT       NOT NULL
		);
	`, idColumn))
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(`
		CREATE TABLE IF NOT EXISTS ips (
			ip           VARCHAR(45) PRIMARY KEY,
			hits         INTEGER     NOT NULL DEFAULT 0,
			nonce        VARCHAR(32) NOT NULL DEFAULT '',
			blocked_time BIGINT      NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	return nil
}
