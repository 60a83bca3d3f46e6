package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/httpresp"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
	"github.com/meetsched/meeting-scheduler/internal/models"
)

type EventTypeHandler struct {
	db *gorm.DB
}

func NewEventTypeHandler(db *gorm.DB) *EventTypeHandler {
	return &EventTypeHandler{db: db}
}

type EventTypeInput struct {
	Name                 string `json:"name" binding:"required"`
	Slug                 string `json:"slug"`
	Description          string `json:"description"`
	DurationMin          int    `json:"duration_min"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	Active               *bool  `json:"active"`
}

func (h *EventTypeHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var eventTypes []models.EventType
	if err := h.db.
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&eventTypes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_event_types", "Failed to load event types.")
		return
	}

	httpresp.List(c, eventTypes)
}

func (h *EventTypeHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req EventTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.DurationMin != 0 &&
		(req.DurationMin < domain.MinSlotDurationMin || req.DurationMin > domain.MaxSlotDurationMin) {
		httperr.BadRequest(c, "invalid_duration", "Duration must be between 15 and 240 minutes.")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	et := models.EventType{
		UserID:               userID,
		Name:                 strings.TrimSpace(req.Name),
		Slug:                 strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:          req.Description,
		DurationMin:          req.DurationMin,
		RequiresConfirmation: req.RequiresConfirmation,
		Active:               active,
	}

	if err := h.db.Create(&et).Error; err != nil {
		httperr.Internal(c, "failed_to_create_event_type", "Failed to create event type.")
		return
	}

	c.JSON(http.StatusCreated, et)
}

func (h *EventTypeHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid event type id.")
		return
	}

	var req EventTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.DurationMin != 0 &&
		(req.DurationMin < domain.MinSlotDurationMin || req.DurationMin > domain.MaxSlotDurationMin) {
		httperr.BadRequest(c, "invalid_duration", "Duration must be between 15 and 240 minutes.")
		return
	}

	var et models.EventType
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&et).Error; err != nil {
		httperr.NotFound(c, "event_type_not_found", "Event type not found.")
		return
	}

	et.Name = strings.TrimSpace(req.Name)
	et.Description = req.Description
	et.DurationMin = req.DurationMin
	et.RequiresConfirmation = req.RequiresConfirmation
	if req.Slug != "" {
		et.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	}
	if req.Active != nil {
		et.Active = *req.Active
	}

	if err := h.db.Save(&et).Error; err != nil {
		httperr.Internal(c, "failed_to_update_event_type", "Failed to update event type.")
		return
	}

	c.JSON(http.StatusOK, et)
}
