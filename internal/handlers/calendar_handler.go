package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/infra/calendar"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
)

const oauthStateTTL = 10 * time.Minute

// CalendarHandler runs the Google Calendar OAuth dance. The state token
// is held in redis so the callback can be validated without a session.
type CalendarHandler struct {
	db    *gorm.DB
	redis *redis.Client
	oauth *oauth2.Config
}

func NewCalendarHandler(db *gorm.DB, rdb *redis.Client, oauth *oauth2.Config) *CalendarHandler {
	return &CalendarHandler{db: db, redis: rdb, oauth: oauth}
}

func (h *CalendarHandler) stateKey(state string) string {
	return fmt.Sprintf("meetsched:oauth_state:%s", state)
}

func (h *CalendarHandler) Connect(c *gin.Context) {
	if h.oauth == nil {
		httperr.Write(c, http.StatusServiceUnavailable,
			"calendar_not_configured", "Google Calendar integration is not configured.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	state := uuid.NewString()
	err := h.redis.Set(
		c.Request.Context(),
		h.stateKey(state),
		fmt.Sprintf("%d", userID),
		oauthStateTTL,
	).Err()
	if err != nil {
		httperr.Internal(c, "failed_to_start_oauth", "Failed to start the calendar connection.")
		return
	}

	url := h.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	)

	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

func (h *CalendarHandler) Callback(c *gin.Context) {
	if h.oauth == nil {
		httperr.Write(c, http.StatusServiceUnavailable,
			"calendar_not_configured", "Google Calendar integration is not configured.")
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		httperr.BadRequest(c, "invalid_oauth_callback", "Missing state or code.")
		return
	}

	ctx := c.Request.Context()

	raw, err := h.redis.Get(ctx, h.stateKey(state)).Result()
	if err != nil {
		httperr.BadRequest(c, "invalid_oauth_state", "Unknown or expired OAuth state.")
		return
	}
	h.redis.Del(ctx, h.stateKey(state))

	var userID uint
	if _, err := fmt.Sscanf(raw, "%d", &userID); err != nil {
		httperr.BadRequest(c, "invalid_oauth_state", "Corrupted OAuth state.")
		return
	}

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		httperr.BadRequest(c, "oauth_exchange_failed", "Failed to exchange the authorization code.")
		return
	}

	if err := calendar.SaveConnection(ctx, h.db, userID, token, c.Query("calendar_id")); err != nil {
		httperr.Internal(c, "failed_to_save_connection", "Failed to store the calendar connection.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "connected",
		"message": "Google Calendar connected.",
	})
}
