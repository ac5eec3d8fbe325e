package valueobject

import (
	"testing"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := NewDateRange(day(start), day(end))
	require.NoError(t, err)
	return r
}

func TestNewDateRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		r, err := NewDateRange(day("2024-01-15"), day("2024-01-17"))
		require.NoError(t, err)
		assert.Equal(t, day("2024-01-15"), r.Start())
		assert.Equal(t, day("2024-01-17"), r.End())
	})

	t.Run("single day range is valid", func(t *testing.T) {
		r, err := NewDateRange(day("2024-01-15"), day("2024-01-15"))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("end before start is rejected as invalid input", func(t *testing.T) {
		_, err := NewDateRange(day("2024-01-17"), day("2024-01-15"))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATES", domainErr.Code)
	})

	t.Run("wall-clock time is normalized to midnight UTC", func(t *testing.T) {
		start := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
		end := time.Date(2024, 1, 17, 1, 0, 0, 0, time.UTC)
		r, err := NewDateRange(start, end)
		require.NoError(t, err)
		assert.Equal(t, day("2024-01-15"), r.Start())
		assert.Equal(t, 3, r.Days())
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	base := mustRange(t, "2024-01-15", "2024-01-17")

	tests := []struct {
		name    string
		other   DateRange
		overlap bool
	}{
		{"identical range", mustRange(t, "2024-01-15", "2024-01-17"), true},
		{"partial overlap at end", mustRange(t, "2024-01-16", "2024-01-18"), true},
		{"partial overlap at start", mustRange(t, "2024-01-13", "2024-01-15"), true},
		{"contained range", mustRange(t, "2024-01-16", "2024-01-16"), true},
		{"touching end day", mustRange(t, "2024-01-17", "2024-01-20"), true},
		{"entirely before", mustRange(t, "2024-01-10", "2024-01-14"), false},
		{"entirely after", mustRange(t, "2024-01-18", "2024-01-20"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlap, tt.other.Overlaps(base))
		})
	}
}

func TestDateRangeDays(t *testing.T) {
	assert.Equal(t, 3, mustRange(t, "2024-01-15", "2024-01-17").Days())
	assert.Equal(t, 1, mustRange(t, "2024-01-15", "2024-01-15").Days())
}

func TestDateRangeContains(t *testing.T) {
	r := mustRange(t, "2024-01-15", "2024-01-17")

	assert.True(t, r.Contains(day("2024-01-15")))
	assert.True(t, r.Contains(day("2024-01-16")))
	assert.True(t, r.Contains(day("2024-01-17")))
	assert.False(t, r.Contains(day("2024-01-14")))
	assert.False(t, r.Contains(day("2024-01-18")))
}
