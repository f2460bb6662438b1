package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// parseClock converts a 12-hour clock value ("9:00" / "11:30") plus an
// AM/PM marker into hour and minute of day. Noon and midnight follow
// clock convention: 12 AM is hour 0, 12 PM stays hour 12.
func parseClock(value, ampm string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("invalid clock value %q", value)
	}
	if len(parts) == 2 {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("invalid clock value %q", value)
		}
	}

	switch strings.ToUpper(strings.TrimSpace(ampm)) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	default:
		return 0, 0, fmt.Errorf("invalid meridiem %q", ampm)
	}
	return hour, minute, nil
}

// partition cuts [from, to) on the given day into contiguous slots of
// slotLen. A trailing remainder shorter than slotLen is dropped.
func partition(day time.Time, fromHour, fromMin, toHour, toMin int, slotLen time.Duration) []Slot {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	from := dayStart.Add(time.Duration(fromHour)*time.Hour + time.Duration(fromMin)*time.Minute)
	to := dayStart.Add(time.Duration(toHour)*time.Hour + time.Duration(toMin)*time.Minute)

	var slots []Slot
	for cur := from; !cur.Add(slotLen).After(to); cur = cur.Add(slotLen) {
		slots = append(slots, Slot{Start: cur, End: cur.Add(slotLen)})
	}
	return slots
}

// overlaps is the half-open interval test shared with the booking
// collision check.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
