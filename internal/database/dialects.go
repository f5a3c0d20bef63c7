package database

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite, the default engine.
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect { return &SQLiteDialect{} }

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

func (d *SQLiteDialect) DSN(info ConnInfo) string { return info.Path }

func (d *SQLiteDialect) RewriteQuery(query string) string { return query }

func (d *SQLiteDialect) SupportsLastInsertId() bool { return true }

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// WAL for concurrent readers during check-in bursts.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return err
	}
	return nil
}

// PostgresDialect implements Dialect for PostgreSQL.
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect { return &PostgresDialect{} }

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(info ConnInfo) string { return info.URL }

func (d *PostgresDialect) RewriteQuery(query string) string {
	return numberPlaceholders(query)
}

func (d *PostgresDialect) SupportsLastInsertId() bool { return false }

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return nil
}

// MySQLDialect implements Dialect for MySQL/MariaDB.
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect { return &MySQLDialect{} }

func (d *MySQLDialect) DriverName() string { return "mysql" }

// DSN passes the URL through; parseTime is required so DATE/DATETIME
// columns scan into time.Time.
func (d *MySQLDialect) DSN(info ConnInfo) string {
	if info.URL == "" {
		return info.URL
	}
	for i := 0; i < len(info.URL); i++ {
		if info.URL[i] == '?' {
			return info.URL + "&parseTime=true"
		}
	}
	return info.URL + "?parseTime=true"
}

func (d *MySQLDialect) RewriteQuery(query string) string { return query }

func (d *MySQLDialect) SupportsLastInsertId() bool { return true }

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(3 * time.Minute)
	return nil
}
