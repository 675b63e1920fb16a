package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	allocationdomain "github.com/halion16/refit-management-sub000/internal/allocation/domain"
	ledgerdomain "github.com/halion16/refit-management-sub000/internal/ledger/domain"
	obscontext "github.com/halion16/refit-management-sub000/internal/observability/context"
	paymenttemplatedomain "github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
	phasedomain "github.com/halion16/refit-management-sub000/internal/phase/domain"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

var (
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrNotFound           = errors.New("not_found")
	ErrRateLimited        = errors.New("rate_limited")
)

type apiError struct {
	status  int
	code    string
	message string
	field   string
}

func (e *apiError) Error() string { return e.code }

func newValidationError(field, code, message string) error {
	return &apiError{status: http.StatusBadRequest, code: code, message: message, field: field}
}

func invalidRequestError() error {
	return &apiError{status: http.StatusBadRequest, code: "invalid_request", message: "request body could not be parsed"}
}

// statusFor maps domain sentinel errors onto HTTP statuses. Unknown errors
// surface as 500 without leaking internals.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotFound),
		errors.Is(err, phasedomain.ErrNotFound),
		errors.Is(err, quotedomain.ErrNotFound),
		errors.Is(err, paymenttemplatedomain.ErrNotFound),
		errors.Is(err, paymenttemplatedomain.ErrQuoteNotFound),
		errors.Is(err, scheduledomain.ErrQuoteNotFound),
		errors.Is(err, scheduledomain.ErrPaymentNotFound),
		errors.Is(err, ledgerdomain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, allocationdomain.ErrUnbalancedAllocation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, phasedomain.ErrInvalidID),
		errors.Is(err, phasedomain.ErrInvalidName),
		errors.Is(err, phasedomain.ErrInvalidProject),
		errors.Is(err, quotedomain.ErrInvalidID),
		errors.Is(err, quotedomain.ErrInvalidNumber),
		errors.Is(err, quotedomain.ErrInvalidProject),
		errors.Is(err, quotedomain.ErrInvalidAmount),
		errors.Is(err, paymenttemplatedomain.ErrInvalidID),
		errors.Is(err, paymenttemplatedomain.ErrInvalidName),
		errors.Is(err, paymenttemplatedomain.ErrInvalidQuoteID),
		errors.Is(err, paymenttemplatedomain.ErrInvalidCustomDate),
		errors.Is(err, scheduledomain.ErrInvalidQuoteID),
		errors.Is(err, scheduledomain.ErrInvalidPaymentID),
		errors.Is(err, ledgerdomain.ErrInvalidPaymentID),
		errors.Is(err, ledgerdomain.ErrInvalidQuoteID),
		errors.Is(err, ledgerdomain.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the JSON error envelope and stops the handler chain.
// The envelope echoes the request id so clients can quote it when reporting
// a failure.
func AbortWithError(c *gin.Context, err error) {
	var typed *apiError
	if errors.As(err, &typed) {
		body := gin.H{"code": typed.code, "message": typed.message}
		if typed.field != "" {
			body["field"] = typed.field
		}
		if requestID := obscontext.RequestIDFromGin(c); requestID != "" {
			body["request_id"] = requestID
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(typed.status, gin.H{"error": body})
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal_error"
	}
	body := gin.H{"code": message}
	if requestID := obscontext.RequestIDFromGin(c); requestID != "" {
		body["request_id"] = requestID
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
