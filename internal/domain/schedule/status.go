package schedule

import (
	"time"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
)

// Token lifetimes for the two-step confirmation flow.
const (
	ConfirmationTTL = 30 * time.Minute
	ApprovalTTL     = 7 * 24 * time.Hour
)

// ===============================
// Booking Status
// ===============================

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ===============================
// Booking Request Status
// ===============================

type RequestStatus string

const (
	RequestPending          RequestStatus = "pending"
	RequestAwaitingApproval RequestStatus = "pending_host_approval"
	RequestConfirmed        RequestStatus = "confirmed"
	RequestCancelled        RequestStatus = "cancelled"
	RequestExpired          RequestStatus = "expired"
)

// ErrInvalidTransition is returned when a state change is attempted from
// a status that does not allow it.
var ErrInvalidTransition = httperr.ErrBusiness("invalid_state")

// ===============================
// Transition guards
// ===============================

func CanCancelBooking(current BookingStatus) error {
	if current != BookingConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCompleteBooking(current BookingStatus) error {
	if current != BookingConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirmRequest guards customer confirmation: only a pending hold can
// be confirmed.
func CanConfirmRequest(current RequestStatus) error {
	if current != RequestPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanResolveApproval guards host approval/rejection.
func CanResolveApproval(current RequestStatus) error {
	if current != RequestAwaitingApproval {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// IsTerminalRequest reports whether a request can no longer transition.
func IsTerminalRequest(current RequestStatus) bool {
	switch current {
	case RequestConfirmed, RequestCancelled, RequestExpired:
		return true
	}
	return false
}
