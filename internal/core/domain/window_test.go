package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDateWindow_Valid tests parsing a well-formed window
func TestParseDateWindow_Valid(t *testing.T) {
	w, err := ParseDateWindow("2024-07-01", "2024-08-30")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 8, 30, 0, 0, 0, 0, time.UTC), w.End)
}

// TestParseDateWindow_Invalid tests rejection of malformed windows
func TestParseDateWindow_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end before start", "2024-08-30", "2024-07-01"},
		{"garbage start", "yesterday", "2024-07-01"},
		{"garbage end", "2024-07-01", "soon"},
		{"empty start", "", "2024-07-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateWindow(tt.start, tt.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDates)
		})
	}
}

// TestDateWindow_InclusiveBounds tests that both boundary dates admit
// scenes acquired at any instant within them
func TestDateWindow_InclusiveBounds(t *testing.T) {
	w, err := ParseDateWindow("2024-07-01", "2024-08-30")
	require.NoError(t, err)

	tests := []struct {
		name     string
		acquired time.Time
		want     bool
	}{
		{"night before start", time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC), false},
		{"start midnight", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid window", time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC), true},
		{"noon on end date", time.Date(2024, 8, 30, 12, 0, 0, 0, time.UTC), true},
		{"last microsecond of end date", time.Date(2024, 8, 30, 23, 59, 59, 999999000, time.UTC), true},
		{"day after end", time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.acquired))
		})
	}
}

// TestDateWindow_Days tests inclusive day counting
func TestDateWindow_Days(t *testing.T) {
	oneDay, err := ParseDateWindow("2024-07-01", "2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, 1, oneDay.Days())

	july, err := ParseDateWindow("2024-07-01", "2024-07-31")
	require.NoError(t, err)
	assert.Equal(t, 31, july.Days())
}

// TestDateWindow_Split tests chunking long windows
func TestDateWindow_Split(t *testing.T) {
	w, err := ParseDateWindow("2024-01-01", "2024-12-31")
	require.NoError(t, err)
	require.Equal(t, 366, w.Days())

	chunks := w.Split(200)
	require.Len(t, chunks, 2)

	assert.Equal(t, w.Start, chunks[0].Start)
	assert.Equal(t, 200, chunks[0].Days())
	assert.Equal(t, chunks[0].End.AddDate(0, 0, 1), chunks[1].Start)
	assert.Equal(t, w.End, chunks[1].End)

	// Chunks cover the window with no gaps or overlaps.
	total := 0
	for _, c := range chunks {
		total += c.Days()
	}
	assert.Equal(t, w.Days(), total)
}

// TestDateWindow_Split_WithinLimit tests that short windows stay whole
func TestDateWindow_Split_WithinLimit(t *testing.T) {
	w, err := ParseDateWindow("2024-07-01", "2024-08-30")
	require.NoError(t, err)

	chunks := w.Split(200)
	require.Len(t, chunks, 1)
	assert.Equal(t, w, chunks[0])
}
