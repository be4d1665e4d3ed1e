package db

import (
	"database/sql"
	"testing"
)

func TestPostgresDriverRegistered(t *testing.T) {
	// Importing this package must be enough to open a "postgres"
	// connection; New must never fail with an unknown-driver error.
	for _, name := range sql.Drivers() {
		if name == "postgres" {
			return
		}
	}
	t.Fatalf("postgres driver not registered; drivers = %v", sql.Drivers())
}
