package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/meetsched/meeting-scheduler/internal/audit"
	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type RejectRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	side  *SideEffects
	log   *zap.Logger
}

func NewRejectRequest(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	side *SideEffects,
	log *zap.Logger,
) *RejectRequest {
	return &RejectRequest{
		repo:  repo,
		audit: auditDispatcher,
		side:  side,
		log:   log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RejectRequest) Execute(
	ctx context.Context,
	approvalToken string,
	hostID uint,
	reason string,
) (*models.BookingRequest, error) {

	var rejected *models.BookingRequest

	err := uc.repo.Transact(ctx, func(tx domain.Repository) error {
		req, err := tx.GetRequestByApprovalToken(ctx, approvalToken)
		if err != nil {
			return httperr.ErrBusiness("request_not_found")
		}
		if req.HostID != hostID {
			return httperr.ErrBusiness("request_not_found")
		}

		if err := domain.CanResolveApproval(domain.RequestStatus(req.Status)); err != nil {
			return err
		}
		if err := domain.MarkRequestCancelled(req, reason); err != nil {
			return err
		}
		if err := tx.UpdateBookingRequest(ctx, req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		HostID:   rejected.HostID,
		UserID:   &hostID,
		Action:   "booking_request_rejected",
		Entity:   "booking_request",
		EntityID: &rejected.ID,
	})
	uc.side.RequestRejected(ctx, rejected, reason)

	return rejected, nil
}
