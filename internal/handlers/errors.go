package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meetsched/meeting-scheduler/internal/httperr"
)

// respondUseCaseError translates use case errors into HTTP responses.
// Conflicts carry the alternative-slot hint; everything unrecognized is
// a 500 with a generic body.
func respondUseCaseError(c *gin.Context, err error) {
	if ce, ok := httperr.AsConflict(err); ok {
		httperr.Conflict(c, ce)
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "host_not_found", "event_type_not_found",
			"booking_not_found", "request_not_found":
			httperr.NotFound(c, be.Code, "Resource not found.")
		case "request_expired":
			httperr.BadRequest(c, be.Code, "This request has expired.")
		case "request_cancelled":
			httperr.BadRequest(c, be.Code, "This request was cancelled.")
		case "invalid_state":
			httperr.Write(c, http.StatusConflict, be.Code, "The current status does not allow this operation.")
		default:
			httperr.BadRequest(c, be.Code, "The request could not be processed.")
		}
		return
	}

	httperr.Internal(c, "internal_error", "An unexpected error occurred.")
}
