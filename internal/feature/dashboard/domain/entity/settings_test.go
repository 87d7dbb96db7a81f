package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TimeRange
		days    int
		wantErr bool
	}{
		{"1week", RangeWeek, 7, false},
		{" 1MONTH ", RangeMonth, 30, false},
		{"1year", RangeYear, 365, false},
		{"2year", "", 0, true},
		{"", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTimeRange(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTimeRange)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.days, got.Days())
		})
	}
}

func TestTimeRange_DaysDefaultsToYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 365, TimeRange("").Days())
}

func TestParseViewMode(t *testing.T) {
	t.Parallel()

	v, err := ParseViewMode("Table")
	assert.NoError(t, err)
	assert.Equal(t, ViewTable, v)

	_, err = ParseViewMode("grid")
	assert.ErrorIs(t, err, ErrUnknownViewMode)
}
