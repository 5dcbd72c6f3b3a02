package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericOrDefault(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"700", 700},
		{" 12.5 ", 12.5},
		{"1,25,000", 125000},
		{"-40", -40},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e400", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumericOrDefault(tt.raw, 0), tt.raw)
	}
	assert.Equal(t, 70.0, ParseNumericOrDefault("seventy", 70))
}

func TestParseCountOrDefault(t *testing.T) {
	assert.Equal(t, 10, ParseCountOrDefault("10", 0))
	assert.Equal(t, 3, ParseCountOrDefault("3.9", 0))
	assert.Equal(t, 0, ParseCountOrDefault("-4", 0))
	assert.Equal(t, 0, ParseCountOrDefault("many", 0))
	assert.Equal(t, 0, ParseCountOrDefault("1e12", 0))
}

func TestIsNumericAndFinite(t *testing.T) {
	assert.True(t, IsNumeric("0"))
	assert.True(t, IsNumeric("1,000.50"))
	assert.False(t, IsNumeric(" "))
	assert.False(t, IsNumeric("+Inf"))

	assert.True(t, IsFinite(-3))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}
