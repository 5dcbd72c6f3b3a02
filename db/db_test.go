package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDBType(t *testing.T) {
	tests := map[string]DBType{
		"":           Postgres,
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"mongo":      Mongo,
		"MongoDB":    Mongo,
	}
	for raw, want := range tests {
		got, err := ParseDBType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseDBType("sqlite")
	assert.ErrorContains(t, err, `unsupported DB_TYPE "sqlite"`)
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	err := RunMigrations("", "file://migrations")
	assert.ErrorContains(t, err, "POSTGRES_URL not set")
}

func TestAmountColumnsAreDoublePrecision(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("migrations", "000006_float_amounts.up.sql"))
	require.NoError(t, err)
	sql := string(raw)

	amountColumns := []string{
		"rate_per_parcel", "pending_balance",
		"handling", "railway", "transport", "box_rate", "transport_rate",
		"total_freight", "transport_charges", "hamali", "statutory", "cr",
		"demurrage", "grand_total",
	}
	for _, col := range amountColumns {
		assert.Regexp(t, `ALTER COLUMN `+col+`\s+TYPE DOUBLE PRECISION`, sql, col)
	}
	assert.NotContains(t, sql, "NUMERIC")
}
