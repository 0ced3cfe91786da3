package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	billdomain "github.com/ridewell/motorbill/internal/bill/domain"
	catalogdomain "github.com/ridewell/motorbill/internal/catalog/domain"
	"github.com/ridewell/motorbill/internal/document"
	"github.com/ridewell/motorbill/internal/pricing"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware converts deferred handler errors into the JSON
// error envelope. Handlers record errors with AbortWithError and never write
// status codes themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	// Pricing violations are client errors and carry their reason code.
	var violation *pricing.Violation
	if errors.As(err, &violation) {
		return http.StatusBadRequest, errorPayload{
			Type:    "pricing_violation",
			Code:    string(violation.Reason),
			Message: violation.Error(),
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, billdomain.ErrInvalidBillID),
		errors.Is(err, billdomain.ErrInvalidCustomer),
		errors.Is(err, billdomain.ErrInvalidChannel),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidBasePrice),
		errors.Is(err, catalogdomain.ErrInvalidVehicleClass),
		errors.Is(err, catalogdomain.ErrExemptLeaseEligible),
		errors.Is(err, document.ErrUnknownFormat):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, billdomain.ErrBillNotFound),
		errors.Is(err, catalogdomain.ErrModelNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, billdomain.ErrInvalidTransition),
		errors.Is(err, billdomain.ErrReferentialConflict),
		errors.Is(err, catalogdomain.ErrModelExists),
		errors.Is(err, catalogdomain.ErrModelReferenced):
		return true
	default:
		return false
	}
}
