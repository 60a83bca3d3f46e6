package schedule

import (
	"time"

	"github.com/meetsched/meeting-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func CancelBooking(b *models.Booking, reason string, now time.Time) error {
	if err := CanCancelBooking(BookingStatus(b.Status)); err != nil {
		return err
	}

	b.Status = string(BookingCancelled)
	b.CancelReason = reason
	b.CancelledAt = &now
	return nil
}

func CompleteBooking(b *models.Booking, now time.Time) error {
	if err := CanCompleteBooking(BookingStatus(b.Status)); err != nil {
		return err
	}

	b.Status = string(BookingCompleted)
	b.CompletedAt = &now
	return nil
}

// MarkRequestExpired moves a live request to expired. It is called both
// by the sweeper and as a side effect of a confirmation attempt on a
// stale token.
func MarkRequestExpired(req *models.BookingRequest) error {
	if IsTerminalRequest(RequestStatus(req.Status)) {
		return ErrInvalidTransition
	}
	req.Status = string(RequestExpired)
	return nil
}

func MarkRequestCancelled(req *models.BookingRequest, reason string) error {
	if IsTerminalRequest(RequestStatus(req.Status)) {
		return ErrInvalidTransition
	}
	req.Status = string(RequestCancelled)
	req.CancelReason = reason
	return nil
}

// MarkRequestAwaitingApproval stores the host-approval token on a pending
// request. No booking exists yet at this point.
func MarkRequestAwaitingApproval(req *models.BookingRequest, token string, expiresAt time.Time) error {
	if err := CanConfirmRequest(RequestStatus(req.Status)); err != nil {
		return err
	}
	req.Status = string(RequestAwaitingApproval)
	req.ApprovalToken = token
	req.ApprovalExpiresAt = &expiresAt
	return nil
}

func MarkRequestConfirmed(req *models.BookingRequest) error {
	switch RequestStatus(req.Status) {
	case RequestPending, RequestAwaitingApproval:
		req.Status = string(RequestConfirmed)
		return nil
	}
	return ErrInvalidTransition
}

// BookingFromRequest builds the confirmed booking a successful request
// resolves into. Customer and time fields carry over unchanged.
func BookingFromRequest(req *models.BookingRequest) *models.Booking {
	return &models.Booking{
		HostID:        req.HostID,
		EventTypeID:   req.EventTypeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        string(BookingConfirmed),
		Notes:         req.Notes,
	}
}
