package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meetsched/meeting-scheduler/internal/audit"
	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
)

// ======================================================
// USE CASE
// ======================================================

// ApproveRequest finalizes a request the event type held for host
// approval. Same conflict and expiry contract as customer confirmation.
type ApproveRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	side  *SideEffects
	log   *zap.Logger
	now   func() time.Time
}

func NewApproveRequest(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	side *SideEffects,
	log *zap.Logger,
) *ApproveRequest {
	return &ApproveRequest{
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

func (uc *ApproveRequest) Execute(
	ctx context.Context,
	approvalToken string,
	hostID uint,
) (*ConfirmResult, error) {

	now := uc.now().UTC()

	var result ConfirmResult
	var outcome error

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {
		req, err := tx.GetRequestByApprovalToken(ctx, approvalToken)
		if err != nil {
			return httperr.ErrBusiness("request_not_found")
		}
		if req.HostID != hostID {
			return httperr.ErrBusiness("request_not_found")
		}
		result.Request = req

		if domain.RequestStatus(req.Status) == domain.RequestConfirmed {
			result.AlreadyConfirmed = true
			return nil
		}
		if err := domain.CanResolveApproval(domain.RequestStatus(req.Status)); err != nil {
			return err
		}

		if req.ApprovalExpiresAt != nil && now.After(*req.ApprovalExpiresAt) {
			if err := domain.MarkRequestExpired(req); err != nil {
				return err
			}
			if err := tx.UpdateBookingRequest(ctx, req); err != nil {
				return err
			}
			outcome = httperr.ErrBusiness("request_expired")
			return nil
		}

		count, err := tx.CountConfirmedOverlaps(ctx, req.HostID, req.StartTime, req.EndTime)
		if err != nil {
			return err
		}
		if count > 0 {
			if err := domain.MarkRequestCancelled(req, "time_slot_taken"); err != nil {
				return err
			}
			if err := tx.UpdateBookingRequest(ctx, req); err != nil {
				return err
			}
			outcome = httperr.ErrTimeSlotTaken(req.HostID, req.StartTime.Format("2006-01-02"))
			return nil
		}

		b := domain.BookingFromRequest(req)
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		if err := domain.MarkRequestConfirmed(req); err != nil {
			return err
		}
		if err := tx.UpdateBookingRequest(ctx, req); err != nil {
			return err
		}
		result.Booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return nil, outcome
	}

	if !result.AlreadyConfirmed {
		req := result.Request
		uc.audit.Dispatch(audit.Event{
			HostID:   req.HostID,
			UserID:   &hostID,
			Action:   "booking_request_approved",
			Entity:   "booking",
			EntityID: &result.Booking.ID,
		})
		if host, err := uc.repo.GetUserByID(ctx, req.HostID); err == nil {
			uc.side.BookingConfirmed(ctx, host, result.Booking)
		}
	}

	return &result, nil
}
