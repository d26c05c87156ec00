package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPresetRange(t *testing.T) {
	// 2025-09-17 is a Wednesday.
	now := time.Date(2025, 9, 17, 14, 30, 0, 0, time.UTC)

	from, to := PresetRange(PresetToday, now)
	assert.Equal(t, day("2025-09-17"), from)
	assert.Equal(t, day("2025-09-17"), to)

	// Weeks run Sunday through Saturday.
	from, to = PresetRange(PresetThisWeek, now)
	assert.Equal(t, day("2025-09-14"), from)
	assert.Equal(t, day("2025-09-20"), to)

	from, to = PresetRange(PresetNextWeek, now)
	assert.Equal(t, day("2025-09-21"), from)
	assert.Equal(t, day("2025-09-27"), to)

	from, to = PresetRange(PresetThisMonth, now)
	assert.Equal(t, day("2025-09-01"), from)
	assert.Equal(t, day("2025-09-30"), to)

	from, to = PresetRange(PresetAll, now)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}

func TestPresetRangeOnSunday(t *testing.T) {
	// A Sunday is its own week start.
	now := time.Date(2025, 9, 14, 8, 0, 0, 0, time.UTC)

	from, to := PresetRange(PresetThisWeek, now)
	assert.Equal(t, day("2025-09-14"), from)
	assert.Equal(t, day("2025-09-20"), to)
}
