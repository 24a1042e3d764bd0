package appointment

import (
	"fmt"
	"time"
)

// GenerateSlots derives the candidate slot starts between start and end
// ("HH:MM"), stepping by duration. A slot is emitted only when the whole
// window fits before end; a trailing partial window yields no slot. Pure and
// deterministic.
func GenerateSlots(start, end string, duration time.Duration) ([]string, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %s", duration)
	}

	from, err := time.Parse("15:04", start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	until, err := time.Parse("15:04", end)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", end, err)
	}

	var slots []string
	for cur := from; !cur.Add(duration).After(until); cur = cur.Add(duration) {
		slots = append(slots, cur.Format("15:04"))
	}
	return slots, nil
}

// FreeSlots removes booked slots from candidates, preserving order.
func FreeSlots(candidates, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	free := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[c]; !ok {
			free = append(free, c)
		}
	}
	return free
}

// WeekdayName returns the lowercase weekday key used by officer
// availability maps.
func WeekdayName(date time.Time) string {
	switch date.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
