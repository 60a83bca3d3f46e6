package booking

import (
	"context"
	"time"

	"github.com/meetsched/meeting-scheduler/internal/audit"
	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	side  *SideEffects
	now   func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	side *SideEffects,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: auditDispatcher,
		side:  side,
		now:   time.Now,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	hostID uint,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForHost(ctx, bookingID, hostID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.CancelBooking(b, reason, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		HostID:   hostID,
		UserID:   &hostID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})
	if host, err := uc.repo.GetUserByID(ctx, hostID); err == nil {
		uc.side.BookingCancelled(ctx, host, b)
	}

	return b, nil
}
