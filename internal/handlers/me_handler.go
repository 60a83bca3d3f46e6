package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
	"github.com/meetsched/meeting-scheduler/internal/models"
	"github.com/meetsched/meeting-scheduler/internal/timezone"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateSettingsRequest struct {
	Name                  *string `json:"name"`
	Timezone              *string `json:"timezone"`
	MinNoticeMinutes      *int    `json:"min_notice_minutes"`
	BookingHorizonDays    *int    `json:"booking_horizon_days"`
	DefaultDurationMin    *int    `json:"default_duration_min"`
	BufferOverrideMinutes *int    `json:"buffer_override_minutes"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Failed to load user.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *MeHandler) UpdateSettings(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Failed to load user.")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		user.Timezone = *req.Timezone
	}
	if req.MinNoticeMinutes != nil && *req.MinNoticeMinutes >= 0 {
		user.MinNoticeMinutes = *req.MinNoticeMinutes
	}
	if req.BookingHorizonDays != nil && *req.BookingHorizonDays >= 0 {
		user.BookingHorizonDays = *req.BookingHorizonDays
	}
	if req.DefaultDurationMin != nil && *req.DefaultDurationMin >= 0 {
		user.DefaultDurationMin = *req.DefaultDurationMin
	}
	if req.BufferOverrideMinutes != nil && *req.BufferOverrideMinutes >= 0 {
		user.BufferOverrideMinutes = *req.BufferOverrideMinutes
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Failed to update settings.")
		return
	}

	c.JSON(http.StatusOK, user)
}
