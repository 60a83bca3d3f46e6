package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
	"github.com/meetsched/meeting-scheduler/internal/httperr"
	"github.com/meetsched/meeting-scheduler/internal/httpresp"
	"github.com/meetsched/meeting-scheduler/internal/middleware"
	"github.com/meetsched/meeting-scheduler/internal/usecase/booking"
)

// RequestHandler covers the host side of the approval flow: the queue of
// requests awaiting a decision plus approve/reject by approval token.
type RequestHandler struct {
	repo    domain.Repository
	approve *booking.ApproveRequest
	reject  *booking.RejectRequest
}

func NewRequestHandler(
	repo domain.Repository,
	approve *booking.ApproveRequest,
	reject *booking.RejectRequest,
) *RequestHandler {
	return &RequestHandler{
		repo:    repo,
		approve: approve,
		reject:  reject,
	}
}

func (h *RequestHandler) ListAwaitingApproval(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	requests, err := h.repo.ListRequestsAwaitingApproval(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_requests", "Failed to load pending requests.")
		return
	}

	httpresp.List(c, requests)
}

func (h *RequestHandler) Approve(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	token := c.Param("token")

	result, err := h.approve.Execute(c.Request.Context(), token, userID)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	if result.AlreadyConfirmed {
		c.JSON(http.StatusOK, gin.H{
			"status":  "already_confirmed",
			"request": result.Request,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "confirmed",
		"booking": result.Booking,
	})
}

type RejectRequestBody struct {
	Reason string `json:"reason"`
}

func (h *RequestHandler) Reject(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	token := c.Param("token")

	var body RejectRequestBody
	_ = c.ShouldBindJSON(&body)

	reason := body.Reason
	if reason == "" {
		reason = "rejected_by_host"
	}

	req, err := h.reject.Execute(c.Request.Context(), token, userID, reason)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "rejected",
		"request": req,
	})
}
