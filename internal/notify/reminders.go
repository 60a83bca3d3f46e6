package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/meetsched/meeting-scheduler/internal/models"
)

const reminderKey = "meetsched:reminders"

type reminderPayload struct {
	BookingID     uint      `json:"booking_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	StartTime     time.Time `json:"start_time"`
}

// ReminderScheduler keeps upcoming booking reminders in a redis sorted
// set, scored by due time, and hands due ones to the dispatcher.
type ReminderScheduler struct {
	rdb        *redis.Client
	dispatcher *Dispatcher
	log        *zap.Logger
	lead       time.Duration
}

func NewReminderScheduler(
	rdb *redis.Client,
	dispatcher *Dispatcher,
	log *zap.Logger,
	lead time.Duration,
) *ReminderScheduler {
	if lead <= 0 {
		lead = time.Hour
	}
	return &ReminderScheduler{
		rdb:        rdb,
		dispatcher: dispatcher,
		log:        log,
		lead:       lead,
	}
}

// Schedule enqueues a reminder for a confirmed booking. Best-effort: a
// redis failure is logged, the booking stands.
func (s *ReminderScheduler) Schedule(ctx context.Context, b *models.Booking) {
	if b.CustomerEmail == "" {
		return
	}

	due := b.StartTime.Add(-s.lead)
	payload, err := json.Marshal(reminderPayload{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		StartTime:     b.StartTime,
	})
	if err != nil {
		return
	}

	if err := s.rdb.ZAdd(ctx, reminderKey, &redis.Z{
		Score:  float64(due.Unix()),
		Member: string(payload),
	}).Err(); err != nil {
		s.log.Warn("failed to schedule reminder",
			zap.Uint("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

// Cancel drops the reminder of a cancelled booking. A miss is harmless;
// the worker re-checks nothing and simply sends to whoever is due.
func (s *ReminderScheduler) Cancel(ctx context.Context, b *models.Booking) {
	payload, err := json.Marshal(reminderPayload{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		StartTime:     b.StartTime,
	})
	if err != nil {
		return
	}
	if err := s.rdb.ZRem(ctx, reminderKey, string(payload)).Err(); err != nil {
		s.log.Warn("failed to cancel reminder", zap.Uint("booking_id", b.ID), zap.Error(err))
	}
}

// Run polls for due reminders until the context is cancelled.
func (s *ReminderScheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deliverDue(ctx, time.Now())
		}
	}
}

func (s *ReminderScheduler) deliverDue(ctx context.Context, now time.Time) {
	members, err := s.rdb.ZRangeByScore(ctx, reminderKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		s.log.Warn("reminder poll failed", zap.Error(err))
		return
	}

	for _, member := range members {
		var p reminderPayload
		if err := json.Unmarshal([]byte(member), &p); err != nil {
			s.rdb.ZRem(ctx, reminderKey, member)
			continue
		}

		s.dispatcher.Dispatch(Message{
			To:      p.CustomerEmail,
			Subject: "Reminder: your upcoming meeting",
			Body: fmt.Sprintf(
				"Hi %s,\n\nThis is a reminder that your meeting starts at %s.\n",
				p.CustomerName,
				p.StartTime.Format(time.RFC1123),
			),
		})

		if err := s.rdb.ZRem(ctx, reminderKey, member).Err(); err != nil {
			s.log.Warn("failed to dequeue reminder", zap.Error(err))
		}
	}
}
