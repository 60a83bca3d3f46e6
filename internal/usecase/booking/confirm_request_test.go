package booking

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

func newConfirm(f *fakeRepo) *ConfirmRequest {
	uc := NewConfirmRequest(f, nil, nil, zap.NewNop())
	uc.now = func() time.Time { return testNow }
	return uc
}

func seedPendingRequest(t *testing.T, f *fakeRepo, et *models.EventType, host *models.User) *models.BookingRequest {
	t.Helper()
	return f.addRequest(models.BookingRequest{
		HostID:            host.ID,
		EventTypeID:       et.ID,
		CustomerName:      "Grace",
		CustomerEmail:     "grace@example.com",
		StartTime:         utc(t, "14:00"),
		EndTime:           utc(t, "15:00"),
		Status:            string(domain.RequestPending),
		ConfirmationToken: "confirm-tok",
		ExpiresAt:         testNow.Add(domain.ConfirmationTTL),
	})
}

func TestConfirmRequestCreatesBooking(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := seedPendingRequest(t, f, et, host)
	uc := newConfirm(f)

	result, err := uc.Execute(context.Background(), "confirm-tok")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.AlreadyConfirmed || result.RequiresApproval {
		t.Fatalf("unexpected result flags: %+v", result)
	}
	if result.Booking == nil {
		t.Fatal("no booking created")
	}
	if !result.Booking.StartTime.Equal(req.StartTime) {
		t.Fatalf("booking starts at %v", result.Booking.StartTime)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestConfirmed) {
		t.Fatalf("request status = %s", stored.Status)
	}
	if len(f.bookings) != 1 {
		t.Fatalf("%d bookings stored", len(f.bookings))
	}
}

func TestConfirmRequestIdempotent(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	seedPendingRequest(t, f, et, host)
	uc := newConfirm(f)

	if _, err := uc.Execute(context.Background(), "confirm-tok"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	result, err := uc.Execute(context.Background(), "confirm-tok")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if !result.AlreadyConfirmed {
		t.Fatal("second confirm not reported as already confirmed")
	}
	if len(f.bookings) != 1 {
		t.Fatalf("repeat confirmation created %d bookings", len(f.bookings))
	}
}

func TestConfirmRequestUnknownToken(t *testing.T) {
	f := newFakeRepo()
	uc := newConfirm(f)

	_, err := uc.Execute(context.Background(), "nope")
	if !httperr.IsBusiness(err, "request_not_found") {
		t.Fatalf("expected request_not_found, got %v", err)
	}
}

// Expiry on touch: the failed confirmation must still persist the expired
// status.
func TestConfirmRequestExpiresOnTouch(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := f.addRequest(models.BookingRequest{
		HostID:            host.ID,
		EventTypeID:       et.ID,
		StartTime:         utc(t, "14:00"),
		EndTime:           utc(t, "15:00"),
		Status:            string(domain.RequestPending),
		ConfirmationToken: "stale-tok",
		ExpiresAt:         testNow.Add(-time.Minute),
	})
	uc := newConfirm(f)

	_, err := uc.Execute(context.Background(), "stale-tok")
	if !httperr.IsBusiness(err, "request_expired") {
		t.Fatalf("expected request_expired, got %v", err)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestExpired) {
		t.Fatalf("request status = %s, want expired", stored.Status)
	}
	if len(f.bookings) != 0 {
		t.Fatal("expired confirmation created a booking")
	}
}

// A booking that landed on the window after the hold was taken cancels
// the request, and the cancellation must survive the failed call.
func TestConfirmRequestLosesToConfirmedBooking(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := seedPendingRequest(t, f, et, host)
	f.addBooking(models.Booking{
		HostID:    host.ID,
		StartTime: utc(t, "14:30"),
		EndTime:   utc(t, "15:30"),
		Status:    string(domain.BookingConfirmed),
	})
	uc := newConfirm(f)

	_, err := uc.Execute(context.Background(), "confirm-tok")
	ce, ok := httperr.AsConflict(err)
	if !ok {
		t.Fatalf("expected conflict, got %v", err)
	}
	if ce.Code != "time_slot_taken" || ce.HostID != host.ID {
		t.Fatalf("conflict payload: %+v", ce)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestCancelled) {
		t.Fatalf("request status = %s, want cancelled", stored.Status)
	}
	if stored.CancelReason != "time_slot_taken" {
		t.Fatalf("cancel reason = %q", stored.CancelReason)
	}
}

// The database exclusion constraint is the last arbiter; when the insert
// loses that race the request is cancelled in a follow-up transaction.
func TestConfirmRequestLostInsertRace(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := seedPendingRequest(t, f, et, host)
	f.createBookingErr = httperr.ErrTimeSlotTaken(host.ID, "2026-03-02")
	uc := newConfirm(f)

	_, err := uc.Execute(context.Background(), "confirm-tok")
	if _, ok := httperr.AsConflict(err); !ok {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestCancelled) {
		t.Fatalf("request status = %s, want cancelled", stored.Status)
	}
}

func TestConfirmRequestRoutesToApproval(t *testing.T) {
	f := newFakeRepo()
	host := f.addUser(models.User{
		Slug: "ada", Timezone: "UTC",
		MinNoticeMinutes: 120, BookingHorizonDays: 60,
	})
	et := f.addEventType(models.EventType{
		UserID:               host.ID,
		Name:                 "Consultation",
		DurationMin:          60,
		RequiresConfirmation: true,
		Active:               true,
	})
	req := seedPendingRequest(t, f, et, host)
	uc := newConfirm(f)

	result, err := uc.Execute(context.Background(), "confirm-tok")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.RequiresApproval || result.AlreadyConfirmed {
		t.Fatalf("unexpected result flags: %+v", result)
	}
	if result.Booking != nil {
		t.Fatal("booking created before host approval")
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestAwaitingApproval) {
		t.Fatalf("request status = %s", stored.Status)
	}
	if stored.ApprovalToken == "" || stored.ApprovalExpiresAt == nil {
		t.Fatal("approval token not set")
	}
	wantExpiry := testNow.Add(domain.ApprovalTTL)
	if !stored.ApprovalExpiresAt.Equal(wantExpiry) {
		t.Fatalf("approval expiry %v, want %v", stored.ApprovalExpiresAt, wantExpiry)
	}
}

func TestConfirmRequestTerminalStatuses(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)

	f.addRequest(models.BookingRequest{
		HostID: host.ID, EventTypeID: et.ID,
		StartTime: utc(t, "09:00"), EndTime: utc(t, "10:00"),
		Status:            string(domain.RequestCancelled),
		ConfirmationToken: "cancelled-tok",
		ExpiresAt:         testNow.Add(time.Hour),
	})
	f.addRequest(models.BookingRequest{
		HostID: host.ID, EventTypeID: et.ID,
		StartTime: utc(t, "11:00"), EndTime: utc(t, "12:00"),
		Status:            string(domain.RequestExpired),
		ConfirmationToken: "expired-tok",
		ExpiresAt:         testNow.Add(time.Hour),
	})
	uc := newConfirm(f)

	if _, err := uc.Execute(context.Background(), "cancelled-tok"); !httperr.IsBusiness(err, "request_cancelled") {
		t.Fatalf("expected request_cancelled, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), "expired-tok"); !httperr.IsBusiness(err, "request_expired") {
		t.Fatalf("expected request_expired, got %v", err)
	}
}
