package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// Transact binds a repository to one transaction. The overlap re-checks
// of the request state machine run through the copy handed to fn.
func (r *BookingGormRepository) Transact(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Host
// --------------------------------------------------

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) GetUserBySlug(
	ctx context.Context,
	slug string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Event type
// --------------------------------------------------

func (r *BookingGormRepository) GetEventType(
	ctx context.Context,
	hostID uint,
	eventTypeID uint,
) (*models.EventType, error) {

	var et models.EventType
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", eventTypeID, hostID).
		First(&et).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

// --------------------------------------------------
// Availability rules
// --------------------------------------------------

func (r *BookingGormRepository) ListAvailabilityRules(
	ctx context.Context,
	hostID uint,
	weekday int,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekday = ? AND active = true", hostID, weekday).
		Order("start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *BookingGormRepository) ListConfirmedBookings(
	ctx context.Context,
	hostID uint,
	startUTC time.Time,
	endUTC time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where(
			"host_id = ? AND status = 'confirmed' AND start_time < ? AND end_time > ?",
			hostID, endUTC, startUTC,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountConfirmedOverlaps uses the explicit three-way overlap test (new
// starts inside existing, ends inside existing, or contains existing)
// and locks matched rows for the remainder of the transaction. Postgres
// does not allow FOR UPDATE together with aggregates, so the ids are
// selected under the lock and counted here.
func (r *BookingGormRepository) CountConfirmedOverlaps(
	ctx context.Context,
	hostID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("host_id = ? AND status = 'confirmed'", hostID).
		Where(
			r.db.
				Where("start_time <= ? AND end_time > ?", start, start).
				Or("start_time < ? AND end_time >= ?", end, end).
				Or("start_time >= ? AND end_time <= ?", start, end),
		).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if err == nil {
		return nil
	}

	// The exclusion constraint on (host_id, tstzrange) is the last line
	// of defense against concurrent confirmations for the same window.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return httperr.ErrTimeSlotTaken(b.HostID, b.StartTime.Format("2006-01-02"))
	}
	return err
}

func (r *BookingGormRepository) GetBookingForHost(
	ctx context.Context,
	bookingID uint,
	hostID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND host_id = ?", bookingID, hostID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	hostID uint,
	startUTC time.Time,
	endUTC time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("EventType").
		Where(
			"host_id = ? AND start_time >= ? AND start_time < ?",
			hostID, startUTC, endUTC,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Booking requests
// --------------------------------------------------

func (r *BookingGormRepository) ListPendingRequests(
	ctx context.Context,
	hostID uint,
	startUTC time.Time,
	endUTC time.Time,
	now time.Time,
) ([]models.BookingRequest, error) {

	var requests []models.BookingRequest
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where("host_id = ? AND start_time < ? AND end_time > ?", hostID, endUTC, startUTC).
		Where(
			r.db.
				Where("status = 'pending' AND expires_at > ?", now).
				Or("status = 'pending_host_approval' AND approval_expires_at > ?", now),
		).
		Order("start_time ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *BookingGormRepository) CountPendingRequestOverlaps(
	ctx context.Context,
	hostID uint,
	start time.Time,
	end time.Time,
	now time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookingRequest{}).
		Where("host_id = ? AND start_time < ? AND end_time > ?", hostID, end, start).
		Where(
			r.db.
				Where("status = 'pending' AND expires_at > ?", now).
				Or("status = 'pending_host_approval' AND approval_expires_at > ?", now),
		).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingGormRepository) CreateBookingRequest(
	ctx context.Context,
	req *models.BookingRequest,
) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetRequestByToken looks up by confirmation token regardless of status;
// the state machine decides how to treat non-pending matches.
func (r *BookingGormRepository) GetRequestByToken(
	ctx context.Context,
	token string,
) (*models.BookingRequest, error) {

	var req models.BookingRequest
	if err := r.db.WithContext(ctx).
		Where("confirmation_token = ?", token).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *BookingGormRepository) GetRequestByApprovalToken(
	ctx context.Context,
	token string,
) (*models.BookingRequest, error) {

	var req models.BookingRequest
	if err := r.db.WithContext(ctx).
		Where("approval_token = ?", token).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *BookingGormRepository) ListRequestsAwaitingApproval(
	ctx context.Context,
	hostID uint,
) ([]models.BookingRequest, error) {

	var requests []models.BookingRequest
	if err := r.db.WithContext(ctx).
		Preload("EventType").
		Where("host_id = ? AND status = 'pending_host_approval'", hostID).
		Order("start_time ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *BookingGormRepository) UpdateBookingRequest(
	ctx context.Context,
	req *models.BookingRequest,
) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// ExpireOverdueRequests flips stale holds to expired in bulk; run by the
// background sweeper.
func (r *BookingGormRepository) ExpireOverdueRequests(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.BookingRequest{}).
		Where(
			r.db.
				Where("status = 'pending' AND expires_at < ?", now).
				Or("status = 'pending_host_approval' AND approval_expires_at < ?", now),
		).
		Update("status", "expired")

	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
