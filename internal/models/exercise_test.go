package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", in: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "padded", in: " 2024-02-29 ", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339 keeps its own day", in: "2024-03-10T23:30:00-05:00", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "impossible day", in: "2023-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "Mon Jan 01 2024", FormatDisplay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDay(t *testing.T) {
	in := time.Date(2024, 5, 6, 17, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), Day(in))
}
