package ping

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "pingboard/internal/domain/ping"
)

func TestComputeExpireAt(t *testing.T) {
	testCases := []struct {
		name     string
		date     string
		clock    string
		duration int
		want     string
	}{
		{
			name:     "ninety minutes",
			date:     "2024-05-01",
			clock:    "14:00",
			duration: 90,
			want:     "2024-05-01T15:30:00Z",
		},
		{
			name:     "zero duration keeps the start instant",
			date:     "2024-05-01",
			clock:    "14:00",
			duration: 0,
			want:     "2024-05-01T14:00:00Z",
		},
		{
			name:     "crosses midnight",
			date:     "2024-12-31",
			clock:    "23:30",
			duration: 45,
			want:     "2025-01-01T00:15:00Z",
		},
		{
			name:     "seconds accepted",
			date:     "2024-05-01",
			clock:    "14:00:30",
			duration: 1,
			want:     "2024-05-01T14:01:30Z",
		},
		{
			name:     "twelve hour clock from happening-now clients",
			date:     "2024-05-01",
			clock:    "02:30 PM",
			duration: 30,
			want:     "2024-05-01T15:00:00Z",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := computeExpireAt(tc.date, tc.clock, tc.duration)
			require.NoError(t, err)

			want, err := time.Parse(time.RFC3339, tc.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestCombineStartIsUTCLiteral(t *testing.T) {
	// The wall clock digits are taken literally on the UTC timeline; no
	// local-zone conversion happens anywhere.
	got, err := combineStart("2024-05-01", "14:00")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 14, got.Hour())
}

func TestComputeExpireAtRejectsBadInput(t *testing.T) {
	testCases := []struct {
		name     string
		date     string
		clock    string
		duration int
	}{
		{name: "garbage date", date: "May 1st", clock: "14:00", duration: 10},
		{name: "garbage time", date: "2024-05-01", clock: "quarter past two", duration: 10},
		{name: "empty date", date: "", clock: "14:00", duration: 10},
		{name: "negative duration", date: "2024-05-01", clock: "14:00", duration: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := computeExpireAt(tc.date, tc.clock, tc.duration)
			require.Error(t, err)

			var verr *domain.ValidationError
			assert.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
		})
	}
}
