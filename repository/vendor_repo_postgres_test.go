package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"kpslogistics/models"
)

func TestSetDefaultErrorMapsIndexRace(t *testing.T) {
	raced := &pq.Error{Code: pqUniqueViolation, Constraint: "vendor_single_default"}
	err := setDefaultError("set", raced)
	assert.ErrorIs(t, err, models.ErrDefaultVendorConflict)

	err = setDefaultError("clear", errors.New("connection reset"))
	assert.NotErrorIs(t, err, models.ErrDefaultVendorConflict)
	assert.ErrorContains(t, err, "clear: connection reset")
}
