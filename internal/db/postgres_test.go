package db

import (
	"testing"

	"parcel-backend/internal/config"
)

func TestDSN(t *testing.T) {
	var cfg config.Config
	cfg.Database.User = "postgres"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "parcel_db"

	if got, want := DSN(&cfg), "postgres://postgres:pw@localhost:5432/parcel_db?sslmode=disable"; got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}

	cfg.Database.SSLMode = "require"
	if got, want := DSN(&cfg), "postgres://postgres:pw@localhost:5432/parcel_db?sslmode=require"; got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
