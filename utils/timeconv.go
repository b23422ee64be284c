package utils

import "fmt"

// SecondOfDayToTime converts a device-reported second-of-day offset to
// a wall-clock "HH:MM:SS" string. The offset is deliberately not
// range-checked: out-of-range values from a misbehaving device clock
// produce malformed strings and stay visible in the stored data
// instead of being silently normalized.
func SecondOfDayToTime(secondOfDay int) string {
	hours := secondOfDay / 3600
	minutes := (secondOfDay % 3600) / 60
	seconds := secondOfDay % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
