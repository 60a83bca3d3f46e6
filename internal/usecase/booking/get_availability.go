package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AvailabilityInput struct {
	HostID      uint
	EventTypeID uint

	// Date is any instant on the target calendar day; it is normalized
	// to midnight in the host's timezone.
	Date time.Time

	// DurationMin is the request-level fallback, used only when neither
	// the event type nor the host settings fix a duration.
	DurationMin int
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo      domain.Repository
	calendars domain.BusyTimeProvider
	log       *zap.Logger
	now       func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	calendars domain.BusyTimeProvider,
	log *zap.Logger,
) *GetAvailability {
	return &GetAvailability{
		repo:      repo,
		calendars: calendars,
		log:       log,
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.Slot, error) {

	host, err := uc.repo.GetUserByID(ctx, in.HostID)
	if err != nil {
		return nil, httperr.ErrBusiness("host_not_found")
	}

	loc := timezone.Location(host.Timezone)
	date := time.Date(
		in.Date.Year(), in.Date.Month(), in.Date.Day(),
		0, 0, 0, 0,
		loc,
	)
	weekday := int(date.Weekday())

	rules, err := uc.repo.ListAvailabilityRules(ctx, in.HostID, weekday)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return []domain.Slot{}, nil
	}

	durationMin, err := uc.resolveDuration(ctx, host.ID, in.EventTypeID, host.DefaultDurationMin, in.DurationMin)
	if err != nil {
		return nil, err
	}

	dayStartUTC := date.UTC()
	dayEndUTC := date.Add(24 * time.Hour).UTC()
	now := uc.now().UTC()

	confirmedBusy, err := uc.confirmedBusy(ctx, in.HostID, dayStartUTC, dayEndUTC)
	if err != nil {
		return nil, err
	}

	pendingBusy, err := uc.pendingBusy(ctx, in.HostID, dayStartUTC, dayEndUTC, now)
	if err != nil {
		return nil, err
	}

	// Calendar lookups fail open: a provider outage must not take slot
	// computation down with it.
	calendarBusy, err := uc.calendars.BusyIntervals(ctx, in.HostID, dayStartUTC, dayEndUTC)
	if err != nil {
		uc.log.Warn("calendar busy-time lookup failed, treating as free",
			zap.Uint("host_id", in.HostID),
			zap.Error(err),
		)
		calendarBusy = nil
	}

	policy := domain.Policy{
		Now:              now,
		MinNoticeMinutes: host.MinNoticeMinutes,
		HorizonDays:      host.BookingHorizonDays,
	}

	var slots []domain.Slot
	for _, rule := range rules {
		if rule.MaxBookingsPerDay > 0 && len(confirmedBusy) >= rule.MaxBookingsPerDay {
			continue
		}

		buffer := rule.BufferMinutes
		if host.BufferOverrideMinutes > 0 {
			buffer = host.BufferOverrideMinutes
		}

		candidates, err := domain.ExpandRule(rule, date, loc, durationMin, buffer)
		if err != nil {
			uc.log.Warn("skipping malformed availability rule",
				zap.Uint("rule_id", rule.ID),
				zap.Error(err),
			)
			continue
		}

		slots = append(slots, domain.FilterSlots(
			candidates,
			buffer,
			confirmedBusy,
			calendarBusy,
			pendingBusy,
			policy,
		)...)
	}

	domain.SortSlots(slots)
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

// resolveDuration applies the event-type / host-settings / request
// priority order and clamps the result.
func (uc *GetAvailability) resolveDuration(
	ctx context.Context,
	hostID uint,
	eventTypeID uint,
	hostDefault int,
	requested int,
) (int, error) {

	if eventTypeID != 0 {
		et, err := uc.repo.GetEventType(ctx, hostID, eventTypeID)
		if err != nil || !et.Active {
			return 0, httperr.ErrBusiness("event_type_not_found")
		}
		if et.DurationMin > 0 {
			return domain.ClampDuration(et.DurationMin), nil
		}
	}
	if hostDefault > 0 {
		return domain.ClampDuration(hostDefault), nil
	}
	if requested > 0 {
		return domain.ClampDuration(requested), nil
	}
	return 0, httperr.ErrBusiness("missing_duration")
}

func (uc *GetAvailability) confirmedBusy(
	ctx context.Context,
	hostID uint,
	startUTC, endUTC time.Time,
) ([]domain.BusyInterval, error) {

	bookings, err := uc.repo.ListConfirmedBookings(ctx, hostID, startUTC, endUTC)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.EndTime.After(b.StartTime) {
			uc.log.Warn("skipping malformed booking row",
				zap.Uint("booking_id", b.ID),
			)
			continue
		}
		busy = append(busy, domain.BusyInterval{Start: b.StartTime, End: b.EndTime})
	}
	return busy, nil
}

func (uc *GetAvailability) pendingBusy(
	ctx context.Context,
	hostID uint,
	startUTC, endUTC, now time.Time,
) ([]domain.BusyInterval, error) {

	requests, err := uc.repo.ListPendingRequests(ctx, hostID, startUTC, endUTC, now)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.BusyInterval, 0, len(requests))
	for _, req := range requests {
		busy = append(busy, domain.BusyInterval{Start: req.StartTime, End: req.EndTime})
	}
	return busy, nil
}
