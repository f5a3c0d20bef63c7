package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported SQL engines so
// repositories can be written once against ? placeholders.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN builds the data source name from connection info.
	DSN(info ConnInfo) string

	// RewriteQuery converts placeholder syntax if needed (? to $1 for postgres).
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements LastInsertId.
	SupportsLastInsertId() bool

	// ConfigureConnection applies engine-specific connection settings.
	ConfigureConnection(db *sql.DB) error
}

// ConnInfo holds connection parameters. Path is used by sqlite, URL by
// postgres and mysql.
type ConnInfo struct {
	Path string
	URL  string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
