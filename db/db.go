package db

import (
	"context"
	"fmt"
	"strings"
)

// DBType selects the storage backend behind the repositories.
type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
)

// ParseDBType reads DB_TYPE. "postgresql" and "mongodb" are accepted too.
func ParseDBType(raw string) (DBType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "postgres", "postgresql":
		return Postgres, nil
	case "mongo", "mongodb":
		return Mongo, nil
	}
	return "", fmt.Errorf("db.ParseDBType: unsupported DB_TYPE %q", raw)
}

// DB is a backend connection held open for the life of the process.
type DB interface {
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Disconnect() error
}
