package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReading(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected float64
		missing  bool
	}{
		{"decimal", "20.3", 20.3, false},
		{"integer", "10", 10, false},
		{"negative", "-4.5", -4.5, false},
		{"padded", "  0.1 ", 0.1, false},
		{"empty", "", 0, true},
		{"NaN sentinel", "NaN", 0, true},
		{"lowercase nan", "nan", 0, true},
		{"NA sentinel", "NA", 0, true},
		{"N/A sentinel", "N/A", 0, true},
		{"spreadsheet #N/A", "#N/A", 0, true},
		{"NULL", "NULL", 0, true},
		{"null", "null", 0, true},
		{"None", "None", 0, true},
		{"signed NaN", "-NaN", 0, true},
		{"padded sentinel", " n/a ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseReading(tt.in)
			require.NoError(t, err)
			if tt.missing {
				assert.True(t, math.IsNaN(v))
				return
			}
			assert.InDelta(t, tt.expected, v, 1e-9)
		})
	}
}

func TestParseReading_Invalid(t *testing.T) {
	for _, in := range []string{"warm", "missing", "--"} {
		_, err := ParseReading(in)
		require.Error(t, err, in)
		assert.Contains(t, err.Error(), "parse reading")
	}
}

func TestParseHumidity(t *testing.T) {
	v, ok, err := ParseHumidity("66")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 66, v)

	v, ok, err = ParseHumidity("66.5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 66, v, "half rounds to even")

	_, ok, err = ParseHumidity("")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ParseHumidity("NULL")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ParseHumidity("damp")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-01 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())

	_, err = ParseDate("03/01/2024")
	require.Error(t, err)
}

func TestFormatReading(t *testing.T) {
	assert.Equal(t, "", FormatReading(math.NaN()))
	assert.Equal(t, "20.3", FormatReading(20.3))
	assert.Equal(t, "0", FormatReading(0))
	assert.Equal(t, "10", FormatReading(10))
}
