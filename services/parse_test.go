package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func TestParseCSVDate(t *testing.T) {
	parsed, err := ParseCSVDate("2024-03-15")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *parsed)

	blank, err := ParseCSVDate("  ")
	require.NoError(t, err)
	assert.Nil(t, blank)

	_, err = ParseCSVDate("15/03/2024")
	assert.Error(t, err)

	_, err = ParseCSVDate("2024-13-01")
	assert.Error(t, err)
}

func TestParseOptionalFloat(t *testing.T) {
	v, err := ParseOptionalFloat("123.45")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 123.45, *v)

	blank, err := ParseOptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, blank)

	_, err = ParseOptionalFloat("abc")
	assert.Error(t, err)
}

func TestParseIssueSize(t *testing.T) {
	cases := []struct {
		input string
		want  *float64
	}{
		{"1,200 Cr", floatPtr(1200)},
		{"450.5 Cr", floatPtr(450.5)},
		{"₹450.5 Cr", floatPtr(450.5)},
		{"100", floatPtr(100)},
		{"", nil},
		{"TBA", nil},
		{"Cr only", nil},
	}

	for _, tc := range cases {
		got := ParseIssueSize(tc.input)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.input)
			continue
		}
		require.NotNil(t, got, "input %q", tc.input)
		assert.Equal(t, *tc.want, *got, "input %q", tc.input)
	}
}

func TestFormatOptionalDate(t *testing.T) {
	d := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", FormatOptionalDate(&d))
	assert.Equal(t, "", FormatOptionalDate(nil))
}

func TestFormatOptionalFloat(t *testing.T) {
	assert.Equal(t, "123.45", FormatOptionalFloat(floatPtr(123.45)))
	assert.Equal(t, "100.00", FormatOptionalFloat(floatPtr(100)))
	assert.Equal(t, "", FormatOptionalFloat(nil))
}
