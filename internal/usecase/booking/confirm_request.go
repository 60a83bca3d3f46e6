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
)

// ConfirmResult is the outcome of a customer confirmation attempt.
type ConfirmResult struct {
	AlreadyConfirmed bool
	RequiresApproval bool
	Request          *models.BookingRequest
	Booking          *models.Booking
}

// ======================================================
// USE CASE
// ======================================================

type ConfirmRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	side  *SideEffects
	log   *zap.Logger
	now   func() time.Time
}

func NewConfirmRequest(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	side *SideEffects,
	log *zap.Logger,
) *ConfirmRequest {
	return &ConfirmRequest{
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

// Execute drives the pending → {confirmed, pending_host_approval,
// cancelled, expired} transition. Status changes and booking creation
// happen in one transaction; transitions that must survive a failed call
// (expiry, conflict cancellation) are committed and the failure is
// returned afterwards via outcome.
func (uc *ConfirmRequest) Execute(
	ctx context.Context,
	token string,
) (*ConfirmResult, error) {

	now := uc.now().UTC()

	var result ConfirmResult
	var outcome error

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {
		req, err := tx.GetRequestByToken(ctx, token)
		if err != nil {
			return httperr.ErrBusiness("request_not_found")
		}
		result.Request = req

		// Repeat confirmations are not an error: report where the
		// request already landed.
		switch domain.RequestStatus(req.Status) {
		case domain.RequestConfirmed:
			result.AlreadyConfirmed = true
			return nil
		case domain.RequestAwaitingApproval:
			result.AlreadyConfirmed = true
			result.RequiresApproval = true
			return nil
		case domain.RequestCancelled:
			return httperr.ErrBusiness("request_cancelled")
		case domain.RequestExpired:
			return httperr.ErrBusiness("request_expired")
		}

		if now.After(req.ExpiresAt) {
			if err := domain.MarkRequestExpired(req); err != nil {
				return err
			}
			if err := tx.UpdateBookingRequest(ctx, req); err != nil {
				return err
			}
			outcome = httperr.ErrBusiness("request_expired")
			return nil
		}

		// Race guard: another booking may have landed on this window
		// since the request was submitted.
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

		et, err := tx.GetEventType(ctx, req.HostID, req.EventTypeID)
		if err != nil {
			return httperr.ErrBusiness("event_type_not_found")
		}

		if et.RequiresConfirmation {
			err := domain.MarkRequestAwaitingApproval(
				req,
				uuid.NewString(),
				now.Add(domain.ApprovalTTL),
			)
			if err != nil {
				return err
			}
			if err := tx.UpdateBookingRequest(ctx, req); err != nil {
				return err
			}
			result.RequiresApproval = true
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
		// A booking insert rejected by the exclusion constraint rolled
		// the transaction back; cancel the loser in its own transaction
		// so the hold does not linger until expiry.
		if _, isConflict := httperr.AsConflict(err); isConflict && result.Request != nil {
			uc.cancelAfterLostRace(ctx, result.Request)
		}
		return nil, err
	}
	if outcome != nil {
		return nil, outcome
	}

	uc.afterConfirm(ctx, &result)
	return &result, nil
}

func (uc *ConfirmRequest) cancelAfterLostRace(ctx context.Context, req *models.BookingRequest) {
	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {
		fresh, err := tx.GetRequestByToken(ctx, req.ConfirmationToken)
		if err != nil {
			return err
		}
		if err := domain.MarkRequestCancelled(fresh, "time_slot_taken"); err != nil {
			return err
		}
		return tx.UpdateBookingRequest(ctx, fresh)
	})
	if err != nil {
		uc.log.Warn("failed to cancel request after lost race",
			zap.Uint("request_id", req.ID),
			zap.Error(err),
		)
	}
}

func (uc *ConfirmRequest) afterConfirm(ctx context.Context, result *ConfirmResult) {
	if result.AlreadyConfirmed {
		return
	}

	req := result.Request
	host, err := uc.repo.GetUserByID(ctx, req.HostID)
	if err != nil {
		uc.log.Warn("host lookup for side effects failed", zap.Error(err))
		return
	}

	if result.RequiresApproval {
		uc.audit.Dispatch(audit.Event{
			HostID:   req.HostID,
			Action:   "booking_request_awaiting_approval",
			Entity:   "booking_request",
			EntityID: &req.ID,
		})
		uc.side.RequestAwaitingApproval(ctx, host, req)
		return
	}

	uc.audit.Dispatch(audit.Event{
		HostID:   req.HostID,
		Action:   "booking_request_confirmed",
		Entity:   "booking",
		EntityID: &result.Booking.ID,
	})
	uc.side.BookingConfirmed(ctx, host, result.Booking)
}
