package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain date", input: "2025-03-10", want: "2025-03-10"},
		{name: "date with time suffix", input: "2025-03-10 08:15:00", want: "2025-03-10"},
		{name: "iso datetime", input: "2025-03-10T08:15:00", want: "2025-03-10"},
		{name: "rfc3339", input: "2025-03-10T08:15:00Z", want: "2025-03-10"},
		{name: "padded whitespace", input: "  2025-03-10  ", want: "2025-03-10"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not-a-date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparsableDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, 0, got.Hour())
			assert.Equal(t, 0, got.Minute())
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "already normalized", input: "08:15:00", want: "08:15:00"},
		{name: "short form", input: "08:15", want: "08:15:00"},
		{name: "time with date prefix", input: "2025-03-10 08:15:00", want: "08:15:00"},
		{name: "iso datetime", input: "2025-03-10T17:45:30", want: "17:45:30"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "noon-ish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparsableTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("15:04:05"))
		})
	}
}

func TestCombine(t *testing.T) {
	date, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	tod, err := ParseTimeOfDay("2025-03-10 22:30:00")
	require.NoError(t, err)

	combined := Combine(date, tod)
	assert.Equal(t, time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC), combined)
}

func TestMinutesOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:45")
	require.NoError(t, err)
	assert.Equal(t, 6*60+45, MinutesOfDay(tod))
}
