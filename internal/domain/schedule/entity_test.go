package schedule

import (
	"testing"
	"time"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

func TestCancelBooking(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(BookingConfirmed)}
	if err := CancelBooking(b, "host unavailable", now); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if b.Status != string(BookingCancelled) {
		t.Fatalf("status = %s", b.Status)
	}
	if b.CancelReason != "host unavailable" || b.CancelledAt == nil {
		t.Fatal("cancel metadata not set")
	}

	// cancelled twice
	if err := CancelBooking(b, "again", now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestCompleteBooking(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(BookingConfirmed)}
	if err := CompleteBooking(b, now); err != nil {
		t.Fatalf("CompleteBooking: %v", err)
	}
	if b.Status != string(BookingCompleted) || b.CompletedAt == nil {
		t.Fatalf("status = %s", b.Status)
	}

	b = &models.Booking{Status: string(BookingCancelled)}
	if err := CompleteBooking(b, now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestMarkRequestExpired(t *testing.T) {
	req := &models.BookingRequest{Status: string(RequestPending)}
	if err := MarkRequestExpired(req); err != nil {
		t.Fatalf("MarkRequestExpired: %v", err)
	}
	if req.Status != string(RequestExpired) {
		t.Fatalf("status = %s", req.Status)
	}

	// terminal statuses stay put
	for _, s := range []RequestStatus{RequestConfirmed, RequestCancelled, RequestExpired} {
		req := &models.BookingRequest{Status: string(s)}
		if err := MarkRequestExpired(req); err == nil {
			t.Fatalf("expired a %s request", s)
		}
	}
}

func TestMarkRequestAwaitingApproval(t *testing.T) {
	expires := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	req := &models.BookingRequest{Status: string(RequestPending)}
	if err := MarkRequestAwaitingApproval(req, "tok-123", expires); err != nil {
		t.Fatalf("MarkRequestAwaitingApproval: %v", err)
	}
	if req.Status != string(RequestAwaitingApproval) {
		t.Fatalf("status = %s", req.Status)
	}
	if req.ApprovalToken != "tok-123" || req.ApprovalExpiresAt == nil {
		t.Fatal("approval token not stored")
	}

	req = &models.BookingRequest{Status: string(RequestConfirmed)}
	if err := MarkRequestAwaitingApproval(req, "tok", expires); err == nil {
		t.Fatal("moved a confirmed request to awaiting approval")
	}
}

func TestMarkRequestConfirmed(t *testing.T) {
	for _, s := range []RequestStatus{RequestPending, RequestAwaitingApproval} {
		req := &models.BookingRequest{Status: string(s)}
		if err := MarkRequestConfirmed(req); err != nil {
			t.Fatalf("confirm from %s: %v", s, err)
		}
		if req.Status != string(RequestConfirmed) {
			t.Fatalf("status = %s", req.Status)
		}
	}

	for _, s := range []RequestStatus{RequestConfirmed, RequestCancelled, RequestExpired} {
		req := &models.BookingRequest{Status: string(s)}
		if err := MarkRequestConfirmed(req); err == nil {
			t.Fatalf("confirmed a %s request", s)
		}
	}
}

func TestBookingFromRequest(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	req := &models.BookingRequest{
		HostID:        7,
		EventTypeID:   3,
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+5511999999999",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Notes:         "bring the contract",
	}

	b := BookingFromRequest(req)
	if b.HostID != 7 || b.EventTypeID != 3 {
		t.Fatal("host/event type not carried over")
	}
	if b.CustomerName != "Ada" || b.CustomerEmail != "ada@example.com" {
		t.Fatal("customer fields not carried over")
	}
	if !b.StartTime.Equal(start) || !b.EndTime.Equal(start.Add(time.Hour)) {
		t.Fatal("time window not carried over")
	}
	if b.Status != string(BookingConfirmed) {
		t.Fatalf("status = %s", b.Status)
	}
	if b.Notes != "bring the contract" {
		t.Fatal("notes not carried over")
	}
}
