package database

import (
	"testing"
)

func TestDialectDrivers(t *testing.T) {
	tests := []struct {
		name         string
		dialect      Dialect
		driver       string
		lastInsertID bool
	}{
		{name: "sqlite", dialect: NewSQLiteDialect(), driver: "sqlite3", lastInsertID: true},
		{name: "postgres", dialect: NewPostgresDialect(), driver: "postgres", lastInsertID: false},
		{name: "mysql", dialect: NewMySQLDialect(), driver: "mysql", lastInsertID: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.lastInsertID)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "sqlite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM members WHERE id = ?",
			expected: "SELECT * FROM members WHERE id = ?",
		},
		{
			name:     "postgres single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM members WHERE id = ?",
			expected: "SELECT * FROM members WHERE id = $1",
		},
		{
			name:     "postgres multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO members (name, email) VALUES (?, ?)",
			expected: "INSERT INTO members (name, email) VALUES ($1, $2)",
		},
		{
			name:     "mysql no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE classes SET name = ?, active = ? WHERE id = ?",
			expected: "UPDATE classes SET name = ?, active = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMySQLDSNParseTime(t *testing.T) {
	d := NewMySQLDialect()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain url gains query string",
			url:  "user:pass@tcp(localhost:3306)/matclub",
			want: "user:pass@tcp(localhost:3306)/matclub?parseTime=true",
		},
		{
			name: "existing query string appended",
			url:  "user:pass@tcp(localhost:3306)/matclub?charset=utf8",
			want: "user:pass@tcp(localhost:3306)/matclub?charset=utf8&parseTime=true",
		},
		{
			name: "empty url untouched",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.DSN(ConnInfo{URL: tt.url}); got != tt.want {
				t.Errorf("DSN() = %v, want %v", got, tt.want)
			}
		})
	}
}
