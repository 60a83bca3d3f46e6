package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
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

type SubmitRequestInput struct {
	HostSlug    string
	EventTypeID uint

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Date  string // YYYY-MM-DD in the host's timezone
	Time  string // HH:mm
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// SubmitRequest creates the tentative hold that starts the public
// two-step confirmation flow.
type SubmitRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	side  *SideEffects
	log   *zap.Logger
	now   func() time.Time
}

func NewSubmitRequest(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	side *SideEffects,
	log *zap.Logger,
) *SubmitRequest {
	return &SubmitRequest{
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

func (uc *SubmitRequest) Execute(
	ctx context.Context,
	in SubmitRequestInput,
) (*models.BookingRequest, error) {

	host, err := uc.repo.GetUserBySlug(ctx, in.HostSlug)
	if err != nil {
		return nil, httperr.ErrBusiness("host_not_found")
	}

	et, err := uc.repo.GetEventType(ctx, host.ID, in.EventTypeID)
	if err != nil || !et.Active {
		return nil, httperr.ErrBusiness("event_type_not_found")
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

	durationMin := et.DurationMin
	if durationMin <= 0 {
		durationMin = host.DefaultDurationMin
	}
	if durationMin <= 0 {
		return nil, httperr.ErrBusiness("missing_duration")
	}
	durationMin = domain.ClampDuration(durationMin)
	end := start.Add(time.Duration(durationMin) * time.Minute)

	minNotice := host.MinNoticeMinutes
	if minNotice <= 0 {
		minNotice = domain.DefaultMinNoticeMinutes
	}

	now := uc.now().UTC()
	if start.Before(now.Add(time.Duration(minNotice) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	req := &models.BookingRequest{
		HostID:            host.ID,
		EventTypeID:       et.ID,
		CustomerName:      in.CustomerName,
		CustomerEmail:     in.CustomerEmail,
		CustomerPhone:     in.CustomerPhone,
		StartTime:         start,
		EndTime:           end,
		Status:            string(domain.RequestPending),
		ConfirmationToken: uuid.NewString(),
		ExpiresAt:         now.Add(domain.ConfirmationTTL),
		Notes:             in.Notes,
	}

	// Both confirmed bookings and live holds block a new hold.
	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {
		count, err := tx.CountConfirmedOverlaps(ctx, host.ID, start, end)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrTimeSlotTaken(host.ID, in.Date)
		}

		count, err = tx.CountPendingRequestOverlaps(ctx, host.ID, start, end, now)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrTimeSlotTaken(host.ID, in.Date)
		}

		return tx.CreateBookingRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		HostID:   host.ID,
		Action:   "booking_request_submitted",
		Entity:   "booking_request",
		EntityID: &req.ID,
	})
	uc.side.RequestSubmitted(ctx, req)

	return req, nil
}
