package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/httpresp"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
	"github.com/meetsched/meeting-scheduler/internal/usecase/booking"
)

// BookingHandler exposes the host's own booking management: direct
// creation, day/month agendas, cancellation and completion.
type BookingHandler struct {
	createBooking   *booking.CreateBooking
	listByDate      *booking.ListBookingsByDate
	listByMonth     *booking.ListBookingsByMonth
	cancelBooking   *booking.CancelBooking
	completeBooking *booking.CompleteBooking
}

func NewBookingHandler(
	createBooking *booking.CreateBooking,
	listByDate *booking.ListBookingsByDate,
	listByMonth *booking.ListBookingsByMonth,
	cancelBooking *booking.CancelBooking,
	completeBooking *booking.CompleteBooking,
) *BookingHandler {
	return &BookingHandler{
		createBooking:   createBooking,
		listByDate:      listByDate,
		listByMonth:     listByMonth,
		cancelBooking:   cancelBooking,
		completeBooking: completeBooking,
	}
}

type CreateBookingRequest struct {
	EventTypeID   uint   `json:"event_type_id"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	DurationMin   int    `json:"duration_min"`
	Notes         string `json:"notes"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.createBooking.Execute(c.Request.Context(), booking.CreateBookingInput{
		HostID:        userID,
		EventTypeID:   req.EventTypeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Date:          req.Date,
		Time:          req.Time,
		DurationMin:   req.DurationMin,
		Notes:         req.Notes,
	})
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) ListByDate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	bookings, err := h.listByDate.Execute(c.Request.Context(), userID, date)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Year must be a valid number.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Month must be between 1 and 12.")
		return
	}

	bookings, err := h.listByMonth.Execute(c.Request.Context(), userID, year, time.Month(month))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	httpresp.List(c, bookings)
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.cancelBooking.Execute(c.Request.Context(), userID, uint(id), req.Reason)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	b, err := h.completeBooking.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
