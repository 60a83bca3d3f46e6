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

func newApprove(f *fakeRepo) *ApproveRequest {
	uc := NewApproveRequest(f, nil, nil, zap.NewNop())
	uc.now = func() time.Time { return testNow }
	return uc
}

func seedAwaitingApproval(t *testing.T, f *fakeRepo, et *models.EventType, host *models.User) *models.BookingRequest {
	t.Helper()
	approvalExpiry := testNow.Add(domain.ApprovalTTL)
	return f.addRequest(models.BookingRequest{
		HostID:            host.ID,
		EventTypeID:       et.ID,
		CustomerName:      "Grace",
		CustomerEmail:     "grace@example.com",
		StartTime:         utc(t, "14:00"),
		EndTime:           utc(t, "15:00"),
		Status:            string(domain.RequestAwaitingApproval),
		ConfirmationToken: "confirm-tok",
		ExpiresAt:         testNow.Add(-time.Minute),
		ApprovalToken:     "approve-tok",
		ApprovalExpiresAt: &approvalExpiry,
	})
}

func TestApproveRequestCreatesBooking(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := seedAwaitingApproval(t, f, et, host)
	uc := newApprove(f)

	result, err := uc.Execute(context.Background(), "approve-tok", host.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Booking == nil {
		t.Fatal("no booking created")
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestConfirmed) {
		t.Fatalf("request status = %s", stored.Status)
	}
}

func TestApproveRequestWrongHost(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	seedAwaitingApproval(t, f, et, host)
	uc := newApprove(f)

	_, err := uc.Execute(context.Background(), "approve-tok", host.ID+99)
	if !httperr.IsBusiness(err, "request_not_found") {
		t.Fatalf("expected request_not_found, got %v", err)
	}
	if len(f.bookings) != 0 {
		t.Fatal("foreign host approved a request")
	}
}

func TestApproveRequestExpiredApprovalWindow(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	stale := testNow.Add(-time.Hour)
	req := f.addRequest(models.BookingRequest{
		HostID:            host.ID,
		EventTypeID:       et.ID,
		StartTime:         utc(t, "14:00"),
		EndTime:           utc(t, "15:00"),
		Status:            string(domain.RequestAwaitingApproval),
		ConfirmationToken: "confirm-tok",
		ApprovalToken:     "approve-tok",
		ApprovalExpiresAt: &stale,
	})
	uc := newApprove(f)

	_, err := uc.Execute(context.Background(), "approve-tok", host.ID)
	if !httperr.IsBusiness(err, "request_expired") {
		t.Fatalf("expected request_expired, got %v", err)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestExpired) {
		t.Fatalf("request status = %s, want expired", stored.Status)
	}
}

func TestApproveRequestConflictCancels(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := seedAwaitingApproval(t, f, et, host)
	f.addBooking(models.Booking{
		HostID:    host.ID,
		StartTime: utc(t, "14:00"),
		EndTime:   utc(t, "15:00"),
		Status:    string(domain.BookingConfirmed),
	})
	uc := newApprove(f)

	_, err := uc.Execute(context.Background(), "approve-tok", host.ID)
	if _, ok := httperr.AsConflict(err); !ok {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestCancelled) {
		t.Fatalf("request status = %s, want cancelled", stored.Status)
	}
}

func TestApproveRequestIdempotent(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	seedAwaitingApproval(t, f, et, host)
	uc := newApprove(f)

	if _, err := uc.Execute(context.Background(), "approve-tok", host.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	result, err := uc.Execute(context.Background(), "approve-tok", host.ID)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if !result.AlreadyConfirmed {
		t.Fatal("second approve not reported as already confirmed")
	}
	if len(f.bookings) != 1 {
		t.Fatalf("repeat approval created %d bookings", len(f.bookings))
	}
}

func TestRejectRequest(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	req := seedAwaitingApproval(t, f, et, host)
	uc := NewRejectRequest(f, nil, nil, zap.NewNop())

	rejected, err := uc.Execute(context.Background(), "approve-tok", host.ID, "double booked")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rejected.Status != string(domain.RequestCancelled) {
		t.Fatalf("status = %s", rejected.Status)
	}
	if rejected.CancelReason != "double booked" {
		t.Fatalf("reason = %q", rejected.CancelReason)
	}

	stored := f.requestByID(req.ID)
	if stored.Status != string(domain.RequestCancelled) {
		t.Fatalf("stored status = %s", stored.Status)
	}
}

func TestRejectRequestOnlyFromAwaitingApproval(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)
	f.addRequest(models.BookingRequest{
		HostID:            host.ID,
		EventTypeID:       et.ID,
		StartTime:         utc(t, "14:00"),
		EndTime:           utc(t, "15:00"),
		Status:            string(domain.RequestPending),
		ConfirmationToken: "confirm-tok",
		ApprovalToken:     "approve-tok",
		ExpiresAt:         testNow.Add(time.Hour),
	})
	uc := NewRejectRequest(f, nil, nil, zap.NewNop())

	_, err := uc.Execute(context.Background(), "approve-tok", host.ID, "nope")
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}
