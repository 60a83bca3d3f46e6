package schedule

import (
	"context"
	"time"

	"github.com/meetsched/meeting-scheduler/internal/models"
)

// Repository is the booking store consumed by the use cases. The gorm
// implementation lives in internal/infra/repository.
type Repository interface {
	// -------- Host --------
	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetUserBySlug(
		ctx context.Context,
		slug string,
	) (*models.User, error)

	// -------- Event type --------
	GetEventType(
		ctx context.Context,
		hostID uint,
		eventTypeID uint,
	) (*models.EventType, error)

	// -------- Availability rules (read-only here) --------
	ListAvailabilityRules(
		ctx context.Context,
		hostID uint,
		weekday int,
	) ([]models.AvailabilityRule, error)

	// -------- Bookings --------
	ListConfirmedBookings(
		ctx context.Context,
		hostID uint,
		startUTC time.Time,
		endUTC time.Time,
	) ([]models.Booking, error)

	// CountConfirmedOverlaps runs the three-way overlap query against
	// confirmed bookings, locking matched rows for the transaction.
	CountConfirmedOverlaps(
		ctx context.Context,
		hostID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingForHost(
		ctx context.Context,
		bookingID uint,
		hostID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForPeriod(
		ctx context.Context,
		hostID uint,
		startUTC time.Time,
		endUTC time.Time,
	) ([]models.Booking, error)

	// -------- Booking requests --------
	ListPendingRequests(
		ctx context.Context,
		hostID uint,
		startUTC time.Time,
		endUTC time.Time,
		now time.Time,
	) ([]models.BookingRequest, error)

	CountPendingRequestOverlaps(
		ctx context.Context,
		hostID uint,
		start time.Time,
		end time.Time,
		now time.Time,
	) (int64, error)

	CreateBookingRequest(
		ctx context.Context,
		req *models.BookingRequest,
	) error

	GetRequestByToken(
		ctx context.Context,
		token string,
	) (*models.BookingRequest, error)

	GetRequestByApprovalToken(
		ctx context.Context,
		token string,
	) (*models.BookingRequest, error)

	ListRequestsAwaitingApproval(
		ctx context.Context,
		hostID uint,
	) ([]models.BookingRequest, error)

	UpdateBookingRequest(
		ctx context.Context,
		req *models.BookingRequest,
	) error

	ExpireOverdueRequests(
		ctx context.Context,
		now time.Time,
	) (int64, error)

	// -------- Transactions --------
	// Transact runs fn against a repository bound to one database
	// transaction. Returning an error rolls everything back.
	Transact(
		ctx context.Context,
		fn func(Repository) error,
	) error
}

// BusyTimeProvider returns external-calendar busy intervals for a host.
// Implementations may fail; the orchestration layer treats any error as
// an empty busy list.
type BusyTimeProvider interface {
	BusyIntervals(
		ctx context.Context,
		hostID uint,
		startUTC time.Time,
		endUTC time.Time,
	) ([]BusyInterval, error)
}
