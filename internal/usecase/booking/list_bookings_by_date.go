package booking

import (
	"context"
	"time"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/dto"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/timezone"
)

type ListBookingsByDate struct {
	repo domain.Repository
}

func NewListBookingsByDate(
	repo domain.Repository,
) *ListBookingsByDate {
	return &ListBookingsByDate{
		repo: repo,
	}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	hostID uint,
	date time.Time,
) ([]dto.BookingListDTO, error) {

	host, err := uc.repo.GetUserByID(ctx, hostID)
	if err != nil {
		return nil, httperr.ErrBusiness("host_not_found")
	}

	loc := timezone.Location(host.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

	bookings, err := uc.repo.ListBookingsForPeriod(
		ctx,
		hostID,
		start.UTC(),
		end.UTC(),
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:            b.ID,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			Status:        b.Status,
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
			EventTypeName: b.EventType.Name,
			Notes:         b.Notes,
		})
	}

	return out, nil
}
