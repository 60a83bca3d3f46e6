package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/models"
	"github.com/meetsched/meeting-scheduler/internal/usecase/booking"
	"github.com/meetsched/meeting-scheduler/internal/validators"
)

// PublicHandler serves the unauthenticated booking surface: a host's
// public profile, the computed availability for a day, and the two-step
// request/confirm flow.
type PublicHandler struct {
	db              *gorm.DB
	getAvailability *booking.GetAvailability
	submitRequest   *booking.SubmitRequest
	confirmRequest  *booking.ConfirmRequest
}

func NewPublicHandler(
	db *gorm.DB,
	getAvailability *booking.GetAvailability,
	submitRequest *booking.SubmitRequest,
	confirmRequest *booking.ConfirmRequest,
) *PublicHandler {
	return &PublicHandler{
		db:              db,
		getAvailability: getAvailability,
		submitRequest:   submitRequest,
		confirmRequest:  confirmRequest,
	}
}

func (h *PublicHandler) hostBySlug(c *gin.Context) (*models.User, bool) {
	slug := c.Param("slug")

	var host models.User
	if err := h.db.
		Where("slug = ?", slug).
		First(&host).Error; err != nil {
		httperr.NotFound(c, "host_not_found", "No host with this link.")
		return nil, false
	}
	return &host, true
}

func (h *PublicHandler) GetProfile(c *gin.Context) {
	host, ok := h.hostBySlug(c)
	if !ok {
		return
	}

	var eventTypes []models.EventType
	if err := h.db.
		Where("user_id = ? AND active = true", host.ID).
		Order("name ASC").
		Find(&eventTypes).Error; err != nil {
		httperr.Internal(c, "failed_to_load_profile", "Failed to load host profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"host": gin.H{
			"name":     host.Name,
			"slug":     host.Slug,
			"timezone": host.Timezone,
		},
		"event_types": eventTypes,
	})
}

func (h *PublicHandler) GetAvailability(c *gin.Context) {
	host, ok := h.hostBySlug(c)
	if !ok {
		return
	}

	date, err := parseDateInHost(host, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	var eventTypeID uint
	if raw := c.Query("event_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_event_type_id", "Invalid event type id.")
			return
		}
		eventTypeID = uint(id)
	}

	var durationMin int
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < domain.MinSlotDurationMin || d > domain.MaxSlotDurationMin {
			httperr.BadRequest(c, "invalid_duration", "Duration must be between 15 and 240 minutes.")
			return
		}
		durationMin = d
	}

	slots, err := h.getAvailability.Execute(c.Request.Context(), booking.AvailabilityInput{
		HostID:      host.ID,
		EventTypeID: eventTypeID,
		Date:        date,
		DurationMin: durationMin,
	})
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date.Format("2006-01-02"),
		"timezone": host.Timezone,
		"slots":    slots,
	})
}

type SubmitRequestBody struct {
	EventTypeID   uint   `json:"event_type_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

func (h *PublicHandler) SubmitRequest(c *gin.Context) {
	var body SubmitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !validators.IsEmailDomainValid(body.CustomerEmail) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	req, err := h.submitRequest.Execute(c.Request.Context(), booking.SubmitRequestInput{
		HostSlug:      c.Param("slug"),
		EventTypeID:   body.EventTypeID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
		Date:          body.Date,
		Time:          body.Time,
		Notes:         body.Notes,
	})
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":     "pending",
		"request_id": req.ID,
		"expires_at": req.ExpiresAt,
		"message":    "Check your email to confirm the booking.",
	})
}

func (h *PublicHandler) ConfirmRequest(c *gin.Context) {
	token := c.Param("token")

	result, err := h.confirmRequest.Execute(c.Request.Context(), token)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	switch {
	case result.AlreadyConfirmed && result.RequiresApproval:
		c.JSON(http.StatusOK, gin.H{
			"status":  "pending_host_approval",
			"message": "Your request is already waiting for the host's approval.",
		})
	case result.AlreadyConfirmed:
		c.JSON(http.StatusOK, gin.H{
			"status":  "already_confirmed",
			"message": "This booking was already confirmed.",
		})
	case result.RequiresApproval:
		c.JSON(http.StatusOK, gin.H{
			"status":  "pending_host_approval",
			"message": "The host still needs to approve this booking.",
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":  "confirmed",
			"booking": result.Booking,
		})
	}
}
