package schedule

import (
	"time"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

// Slot is an ephemeral candidate booking window. Both instants are UTC;
// slots are produced by ExpandRule and filtered by FilterSlots, never
// persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

const (
	MinSlotDurationMin = 15
	MaxSlotDurationMin = 240
)

// ClampDuration forces a resolved slot duration into the supported range.
func ClampDuration(minutes int) int {
	if minutes < MinSlotDurationMin {
		return MinSlotDurationMin
	}
	if minutes > MaxSlotDurationMin {
		return MaxSlotDurationMin
	}
	return minutes
}

// ParseClock parses a local wall-clock time stored as "15:04" or
// "15:04:05" and places it on the given date in loc.
func ParseClock(clock string, date time.Time, loc *time.Location) (time.Time, error) {
	layout := "15:04"
	if len(clock) >= 8 {
		clock = clock[:8]
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_rule_time")
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		loc,
	), nil
}

// ExpandRule turns one weekly rule into the ordered candidate slots for
// the target date. The date must be midnight in the host's timezone; the
// rule window is placed onto it in that zone and the produced slots are
// converted to UTC.
//
// The cursor advances by duration + buffer after each slot, so
// consecutive slots come out buffer-separated. An empty or too-small
// window yields no slots and no error.
func ExpandRule(
	rule models.AvailabilityRule,
	date time.Time,
	loc *time.Location,
	durationMin int,
	bufferMin int,
) ([]Slot, error) {

	if rule.StartTime == "" || rule.EndTime == "" {
		return nil, nil
	}

	windowStart, err := ParseClock(rule.StartTime, date, loc)
	if err != nil {
		return nil, err
	}
	windowEnd, err := ParseClock(rule.EndTime, date, loc)
	if err != nil {
		return nil, err
	}
	if !windowEnd.After(windowStart) {
		return nil, nil
	}

	duration := time.Duration(durationMin) * time.Minute
	stride := duration + time.Duration(bufferMin)*time.Minute

	var slots []Slot
	for cur := windowStart; !cur.Add(duration).After(windowEnd); cur = cur.Add(stride) {
		slots = append(slots, Slot{
			Start: cur.UTC(),
			End:   cur.Add(duration).UTC(),
		})
	}
	return slots, nil
}
