package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meetsched/meeting-scheduler/internal/audit"
	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
	"github.com/meetsched/meeting-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	HostID      uint
	EventTypeID uint

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Date        string // YYYY-MM-DD in the host's timezone
	Time        string // HH:mm
	DurationMin int
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	side  *SideEffects
	log   *zap.Logger
	now   func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	side *SideEffects,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: auditDispatcher,
		side:  side,
		log:   log,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	host, err := uc.repo.GetUserByID(ctx, in.HostID)
	if err != nil {
		return nil, httperr.ErrBusiness("host_not_found")
	}

	loc := timezone.Location(host.Timezone)
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	start = start.UTC()

	durationMin, err := uc.resolveDuration(ctx, host, in.EventTypeID, in.DurationMin)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(durationMin) * time.Minute)

	minNotice := host.MinNoticeMinutes
	if minNotice <= 0 {
		minNotice = domain.DefaultMinNoticeMinutes
	}

	now := uc.now().UTC()
	if start.Before(now.Add(time.Duration(minNotice) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	b := &models.Booking{
		HostID:        in.HostID,
		EventTypeID:   in.EventTypeID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		StartTime:     start,
		EndTime:       end,
		Status:        string(domain.BookingConfirmed),
		Notes:         in.Notes,
	}

	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {
		count, err := tx.CountConfirmedOverlaps(ctx, in.HostID, start, end)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrTimeSlotTaken(in.HostID, in.Date)
		}
		return tx.CreateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		HostID:   in.HostID,
		UserID:   &in.HostID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})
	uc.side.BookingConfirmed(ctx, host, b)

	return b, nil
}

func (uc *CreateBooking) resolveDuration(
	ctx context.Context,
	host *models.User,
	eventTypeID uint,
	requested int,
) (int, error) {

	if eventTypeID != 0 {
		et, err := uc.repo.GetEventType(ctx, host.ID, eventTypeID)
		if err != nil || !et.Active {
			return 0, httperr.ErrBusiness("event_type_not_found")
		}
		if et.DurationMin > 0 {
			return domain.ClampDuration(et.DurationMin), nil
		}
	}
	if host.DefaultDurationMin > 0 {
		return domain.ClampDuration(host.DefaultDurationMin), nil
	}
	if requested > 0 {
		return domain.ClampDuration(requested), nil
	}
	return 0, httperr.ErrBusiness("missing_duration")
}
