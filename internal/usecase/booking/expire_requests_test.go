package booking

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

func TestExpireRequestsSweep(t *testing.T) {
	f := newFakeRepo()
	host, et := seedHost(f)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	overduePending := f.addRequest(models.BookingRequest{
		HostID: host.ID, EventTypeID: et.ID,
		StartTime: utc(t, "09:00"), EndTime: utc(t, "10:00"),
		Status:            string(domain.RequestPending),
		ConfirmationToken: "a",
		ExpiresAt:         past,
	})
	overdueApproval := f.addRequest(models.BookingRequest{
		HostID: host.ID, EventTypeID: et.ID,
		StartTime: utc(t, "11:00"), EndTime: utc(t, "12:00"),
		Status:            string(domain.RequestAwaitingApproval),
		ConfirmationToken: "b",
		ApprovalToken:     "b-approve",
		ApprovalExpiresAt: &past,
	})
	live := f.addRequest(models.BookingRequest{
		HostID: host.ID, EventTypeID: et.ID,
		StartTime: utc(t, "14:00"), EndTime: utc(t, "15:00"),
		Status:            string(domain.RequestPending),
		ConfirmationToken: "c",
		ExpiresAt:         future,
	})

	uc := NewExpireRequests(f, zap.NewNop())
	if err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := f.requestByID(overduePending.ID).Status; got != string(domain.RequestExpired) {
		t.Fatalf("overdue pending = %s", got)
	}
	if got := f.requestByID(overdueApproval.ID).Status; got != string(domain.RequestExpired) {
		t.Fatalf("overdue approval = %s", got)
	}
	if got := f.requestByID(live.ID).Status; got != string(domain.RequestPending) {
		t.Fatalf("live request = %s", got)
	}
}
