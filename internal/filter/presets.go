package filter

import "time"

// Preset names for the quick date-range buttons.
const (
	PresetToday     = "today"
	PresetThisWeek  = "thisWeek"
	PresetThisMonth = "thisMonth"
	PresetNextWeek  = "nextWeek"
	PresetAll       = "all"
)

// PresetRange computes the inclusive From/To bounds for a quick date preset
// relative to now. Weeks start on Sunday; months use calendar boundaries.
// The "all" preset (and unknown names) clears both bounds.
func PresetRange(preset string, now time.Time) (from, to time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch preset {
	case PresetToday:
		return today, today
	case PresetThisWeek:
		weekStart := today.AddDate(0, 0, -int(today.Weekday()))
		return weekStart, weekStart.AddDate(0, 0, 6)
	case PresetNextWeek:
		weekStart := today.AddDate(0, 0, -int(today.Weekday())).AddDate(0, 0, 7)
		return weekStart, weekStart.AddDate(0, 0, 6)
	case PresetThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart, monthStart.AddDate(0, 1, -1)
	}
	return time.Time{}, time.Time{}
}
