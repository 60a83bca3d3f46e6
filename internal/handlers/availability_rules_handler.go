package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/httpresp"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

type AvailabilityRulesHandler struct {
	db *gorm.DB
}

func NewAvailabilityRulesHandler(db *gorm.DB) *AvailabilityRulesHandler {
	return &AvailabilityRulesHandler{db: db}
}

type RuleInput struct {
	Weekday           int    `json:"weekday"`
	StartTime         string `json:"start_time" binding:"required"`
	EndTime           string `json:"end_time" binding:"required"`
	BufferMinutes     int    `json:"buffer_minutes"`
	MaxBookingsPerDay int    `json:"max_bookings_per_day"`
	Active            *bool  `json:"active"`
}

type ReplaceRulesRequest struct {
	Rules []RuleInput `json:"rules" binding:"required"`
}

func (h *AvailabilityRulesHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var rules []models.AvailabilityRule
	if err := h.db.
		Where("user_id = ?", userID).
		Order("weekday ASC, start_time ASC").
		Find(&rules).Error; err != nil {
		httperr.Internal(c, "failed_to_list_rules", "Failed to load availability rules.")
		return
	}

	httpresp.List(c, rules)
}

// Replace swaps the host's full weekly schedule in one transaction. The
// frontend always sends the complete set, so per-rule PATCH is not needed.
func (h *AvailabilityRulesHandler) Replace(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req ReplaceRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	rules := make([]models.AvailabilityRule, 0, len(req.Rules))
	for _, in := range req.Rules {
		if in.Weekday < 0 || in.Weekday > 6 {
			httperr.BadRequest(c, "invalid_weekday", "Weekday must be between 0 (Sunday) and 6 (Saturday).")
			return
		}

		// Validation only cares about the wall-clock ordering, so any
		// reference date works.
		ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		start, err := domain.ParseClock(in.StartTime, ref, time.UTC)
		if err != nil {
			httperr.BadRequest(c, "invalid_start_time", "Start time must be HH:mm.")
			return
		}
		end, err := domain.ParseClock(in.EndTime, ref, time.UTC)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_time", "End time must be HH:mm.")
			return
		}
		if !end.After(start) {
			httperr.BadRequest(c, "invalid_time_window", "End time must be after start time.")
			return
		}
		if in.BufferMinutes < 0 || in.MaxBookingsPerDay < 0 {
			httperr.BadRequest(c, "invalid_rule_values", "Buffer and daily limit cannot be negative.")
			return
		}

		active := true
		if in.Active != nil {
			active = *in.Active
		}

		rules = append(rules, models.AvailabilityRule{
			UserID:            userID,
			Weekday:           in.Weekday,
			StartTime:         in.StartTime,
			EndTime:           in.EndTime,
			BufferMinutes:     in.BufferMinutes,
			MaxBookingsPerDay: in.MaxBookingsPerDay,
			Active:            active,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", userID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_rules", "Failed to save availability rules.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}
