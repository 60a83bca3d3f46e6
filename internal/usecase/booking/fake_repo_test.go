package booking

import (
	"context"
	"errors"
	"time"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

var errNotFound = errors.New("record not found")

// fakeRepo is the in-memory repository the use case tests run against.
// Transact has no rollback; tests that need commit-despite-failure
// semantics rely on that matching the outcome-error pattern.
type fakeRepo struct {
	users      []*models.User
	eventTypes []*models.EventType
	rules      []models.AvailabilityRule
	bookings   []*models.Booking
	requests   []*models.BookingRequest

	nextID uint

	// when set, CreateBooking fails with this error
	createBookingErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (f *fakeRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) addUser(u models.User) *models.User {
	u.ID = f.id()
	f.users = append(f.users, &u)
	return f.users[len(f.users)-1]
}

func (f *fakeRepo) addEventType(et models.EventType) *models.EventType {
	et.ID = f.id()
	f.eventTypes = append(f.eventTypes, &et)
	return f.eventTypes[len(f.eventTypes)-1]
}

func (f *fakeRepo) addRule(r models.AvailabilityRule) {
	r.ID = f.id()
	f.rules = append(f.rules, r)
}

func (f *fakeRepo) addBooking(b models.Booking) *models.Booking {
	b.ID = f.id()
	f.bookings = append(f.bookings, &b)
	return f.bookings[len(f.bookings)-1]
}

func (f *fakeRepo) addRequest(r models.BookingRequest) *models.BookingRequest {
	r.ID = f.id()
	f.requests = append(f.requests, &r)
	return f.requests[len(f.requests)-1]
}

func (f *fakeRepo) requestByID(id uint) *models.BookingRequest {
	for _, r := range f.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// --------------------------------------------------
// domain.Repository
// --------------------------------------------------

func (f *fakeRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetUserBySlug(_ context.Context, slug string) (*models.User, error) {
	for _, u := range f.users {
		if u.Slug == slug {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetEventType(_ context.Context, hostID, eventTypeID uint) (*models.EventType, error) {
	for _, et := range f.eventTypes {
		if et.ID == eventTypeID && et.UserID == hostID {
			cp := *et
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) ListAvailabilityRules(_ context.Context, hostID uint, weekday int) ([]models.AvailabilityRule, error) {
	var out []models.AvailabilityRule
	for _, r := range f.rules {
		if r.UserID == hostID && r.Weekday == weekday && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListConfirmedBookings(_ context.Context, hostID uint, startUTC, endUTC time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HostID == hostID &&
			b.Status == string(domain.BookingConfirmed) &&
			b.StartTime.Before(endUTC) && b.EndTime.After(startUTC) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountConfirmedOverlaps(_ context.Context, hostID uint, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if b.HostID == hostID &&
			b.Status == string(domain.BookingConfirmed) &&
			domain.Overlaps(b.StartTime, b.EndTime, start, end) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	if f.createBookingErr != nil {
		return f.createBookingErr
	}
	b.ID = f.id()
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeRepo) GetBookingForHost(_ context.Context, bookingID, hostID uint) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == bookingID && b.HostID == hostID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	for i, stored := range f.bookings {
		if stored.ID == b.ID {
			cp := *b
			f.bookings[i] = &cp
			return nil
		}
	}
	return errNotFound
}

func (f *fakeRepo) ListBookingsForPeriod(_ context.Context, hostID uint, startUTC, endUTC time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HostID == hostID && !b.StartTime.Before(startUTC) && b.StartTime.Before(endUTC) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) requestIsLive(r *models.BookingRequest, now time.Time) bool {
	switch domain.RequestStatus(r.Status) {
	case domain.RequestPending:
		return r.ExpiresAt.After(now)
	case domain.RequestAwaitingApproval:
		return r.ApprovalExpiresAt != nil && r.ApprovalExpiresAt.After(now)
	}
	return false
}

func (f *fakeRepo) ListPendingRequests(_ context.Context, hostID uint, startUTC, endUTC, now time.Time) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, r := range f.requests {
		if r.HostID == hostID &&
			r.StartTime.Before(endUTC) && r.EndTime.After(startUTC) &&
			f.requestIsLive(r, now) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountPendingRequestOverlaps(_ context.Context, hostID uint, start, end, now time.Time) (int64, error) {
	var count int64
	for _, r := range f.requests {
		if r.HostID == hostID &&
			domain.Overlaps(r.StartTime, r.EndTime, start, end) &&
			f.requestIsLive(r, now) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateBookingRequest(_ context.Context, req *models.BookingRequest) error {
	req.ID = f.id()
	cp := *req
	f.requests = append(f.requests, &cp)
	return nil
}

func (f *fakeRepo) GetRequestByToken(_ context.Context, token string) (*models.BookingRequest, error) {
	for _, r := range f.requests {
		if r.ConfirmationToken == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetRequestByApprovalToken(_ context.Context, token string) (*models.BookingRequest, error) {
	if token == "" {
		return nil, errNotFound
	}
	for _, r := range f.requests {
		if r.ApprovalToken == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) ListRequestsAwaitingApproval(_ context.Context, hostID uint) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, r := range f.requests {
		if r.HostID == hostID && r.Status == string(domain.RequestAwaitingApproval) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateBookingRequest(_ context.Context, req *models.BookingRequest) error {
	for i, stored := range f.requests {
		if stored.ID == req.ID {
			cp := *req
			f.requests[i] = &cp
			return nil
		}
	}
	return errNotFound
}

func (f *fakeRepo) ExpireOverdueRequests(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, r := range f.requests {
		switch domain.RequestStatus(r.Status) {
		case domain.RequestPending:
			if r.ExpiresAt.Before(now) {
				r.Status = string(domain.RequestExpired)
				n++
			}
		case domain.RequestAwaitingApproval:
			if r.ApprovalExpiresAt != nil && r.ApprovalExpiresAt.Before(now) {
				r.Status = string(domain.RequestExpired)
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeRepo) Transact(_ context.Context, fn func(domain.Repository) error) error {
	return fn(f)
}

var _ domain.Repository = (*fakeRepo)(nil)

// fakeBusy is a canned BusyTimeProvider.
type fakeBusy struct {
	intervals []domain.BusyInterval
	err       error
}

func (f *fakeBusy) BusyIntervals(_ context.Context, _ uint, _, _ time.Time) ([]domain.BusyInterval, error) {
	return f.intervals, f.err
}
