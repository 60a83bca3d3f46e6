package schedule

import (
	"sort"
	"time"
)

const (
	DefaultMinNoticeMinutes   = 120
	DefaultBookingHorizonDays = 60
)

// Policy carries the date-independent cutoffs applied by FilterSlots.
type Policy struct {
	Now              time.Time
	MinNoticeMinutes int
	HorizonDays      int
}

func (p Policy) minNotice() time.Duration {
	m := p.MinNoticeMinutes
	if m <= 0 {
		m = DefaultMinNoticeMinutes
	}
	return time.Duration(m) * time.Minute
}

func (p Policy) horizon() time.Duration {
	d := p.HorizonDays
	if d <= 0 {
		d = DefaultBookingHorizonDays
	}
	return time.Duration(d) * 24 * time.Hour
}

// FilterSlots removes candidate slots that start before now + minimum
// notice, start past the booking horizon, or conflict with any busy
// interval under the dual raw/buffer-padded check. It is a pure filter:
// the input order is preserved and duplicates are not removed.
//
// bufferMin is the effective buffer of the rule the slots came from, so
// slots from different rules must be filtered in separate calls.
func FilterSlots(
	slots []Slot,
	bufferMin int,
	confirmed []BusyInterval,
	calendarBusy []BusyInterval,
	pending []BusyInterval,
	p Policy,
) []Slot {

	earliest := p.Now.Add(p.minNotice())
	latest := p.Now.Add(p.horizon())
	buffer := time.Duration(bufferMin) * time.Minute

	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Start.Before(earliest) || s.Start.After(latest) {
			continue
		}
		if conflictsAny(s, confirmed, buffer) {
			continue
		}
		if conflictsAny(s, calendarBusy, buffer) {
			continue
		}
		if conflictsAny(s, pending, buffer) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortSlots orders accumulated slots ascending by start. Identical slots
// produced by overlapping rules are kept; callers see them twice.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
}
