package booking

import (
	"context"
	"time"

	"github.com/meetsched/meeting-scheduler/internal/audit"
	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:  repo,
		audit: auditDispatcher,
		now:   time.Now,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	hostID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForHost(ctx, bookingID, hostID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.CompleteBooking(b, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		HostID:   hostID,
		UserID:   &hostID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
