package schedule

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. All comparisons happen on absolute instants;
// callers must never pass naive local times.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// BusyInterval is a UTC time range during which the host is unavailable.
// The same value is used for confirmed bookings, pending holds and
// external calendar events.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ConflictsWith checks a candidate slot against the busy interval twice:
// once raw and once with the slot padded by ±buffer. Conflict is the OR of
// both. The padding is applied to the slot, not the busy interval.
func (b BusyInterval) ConflictsWith(s Slot, buffer time.Duration) bool {
	if Overlaps(s.Start, s.End, b.Start, b.End) {
		return true
	}
	return Overlaps(s.Start.Add(-buffer), s.End.Add(buffer), b.Start, b.End)
}

func conflictsAny(s Slot, busy []BusyInterval, buffer time.Duration) bool {
	for _, b := range busy {
		if b.ConflictsWith(s, buffer) {
			return true
		}
	}
	return false
}
