package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/models"
	"github.com/meetsched/meeting-scheduler/internal/notify"
)

// SideEffects groups the best-effort follow-ups of a successful
// transition: notifications and reminder scheduling. None of them can
// fail the primary operation; a nil *SideEffects is a no-op, which is
// what the tests use.
type SideEffects struct {
	notifier  *notify.Dispatcher
	reminders *notify.ReminderScheduler
	baseURL   string
}

func NewSideEffects(
	notifier *notify.Dispatcher,
	reminders *notify.ReminderScheduler,
	baseURL string,
) *SideEffects {
	return &SideEffects{
		notifier:  notifier,
		reminders: reminders,
		baseURL:   baseURL,
	}
}

func (s *SideEffects) BookingConfirmed(ctx context.Context, host *models.User, b *models.Booking) {
	if s == nil {
		return
	}
	if s.notifier != nil {
		s.notifier.Dispatch(notify.Message{
			To:      b.CustomerEmail,
			Subject: "Your meeting is confirmed",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour meeting with %s on %s is confirmed.\n",
				b.CustomerName,
				host.Name,
				b.StartTime.Format(time.RFC1123),
			),
		})
		s.notifier.Dispatch(notify.Message{
			To:      host.Email,
			Subject: "New booking",
			Body: fmt.Sprintf(
				"%s booked %s.\n",
				b.CustomerName,
				b.StartTime.Format(time.RFC1123),
			),
		})
	}
	if s.reminders != nil {
		s.reminders.Schedule(ctx, b)
	}
}

func (s *SideEffects) BookingCancelled(ctx context.Context, host *models.User, b *models.Booking) {
	if s == nil {
		return
	}
	if s.notifier != nil {
		s.notifier.Dispatch(notify.Message{
			To:      b.CustomerEmail,
			Subject: "Your meeting was cancelled",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour meeting on %s was cancelled.\n",
				b.CustomerName,
				b.StartTime.Format(time.RFC1123),
			),
		})
	}
	if s.reminders != nil {
		s.reminders.Cancel(ctx, b)
	}
}

func (s *SideEffects) RequestSubmitted(ctx context.Context, req *models.BookingRequest) {
	if s == nil || s.notifier == nil {
		return
	}
	s.notifier.Dispatch(notify.Message{
		To:      req.CustomerEmail,
		Subject: "Confirm your booking request",
		Body: fmt.Sprintf(
			"Hi %s,\n\nConfirm your booking within %d minutes:\n%s/api/public/requests/confirm/%s\n",
			req.CustomerName,
			int(domain.ConfirmationTTL.Minutes()),
			s.baseURL,
			req.ConfirmationToken,
		),
	})
}

func (s *SideEffects) RequestAwaitingApproval(ctx context.Context, host *models.User, req *models.BookingRequest) {
	if s == nil || s.notifier == nil {
		return
	}
	s.notifier.Dispatch(notify.Message{
		To:      host.Email,
		Subject: "Booking request awaiting your approval",
		Body: fmt.Sprintf(
			"%s requested %s. Approve or decline from your dashboard.\n",
			req.CustomerName,
			req.StartTime.Format(time.RFC1123),
		),
	})
}

func (s *SideEffects) RequestRejected(ctx context.Context, req *models.BookingRequest, reason string) {
	if s == nil || s.notifier == nil {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking request for %s was declined.\n",
		req.CustomerName,
		req.StartTime.Format(time.RFC1123),
	)
	if reason != "" {
		body += "Reason: " + reason + "\n"
	}
	s.notifier.Dispatch(notify.Message{
		To:      req.CustomerEmail,
		Subject: "Your booking request was declined",
		Body:    body,
	})
}
