package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Details    string `json:"details,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// UpstreamError represents a failure from a proxied third-party API, already
// mapped to the status code this service should return to its own clients.
type UpstreamError struct {
	Code       string
	Message    string
	Status     int // status this service responds with
	RetryAfter int // seconds, only set for rate-limited upstreams
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// NewUpstreamRateLimited maps an upstream 429 to a 503 carrying the
// propagated Retry-After value.
func NewUpstreamRateLimited(retryAfter int) *UpstreamError {
	return &UpstreamError{
		Code:       "UPSTREAM_RATE_LIMITED",
		Message:    "Upstream service is rate limiting requests",
		Status:     fiber.StatusServiceUnavailable,
		RetryAfter: retryAfter,
	}
}

// NewUpstreamBadGateway maps upstream 5xx and unexpected 4xx responses to 502.
func NewUpstreamBadGateway(err error) *UpstreamError {
	return &UpstreamError{
		Code:    "UPSTREAM_ERROR",
		Message: "Upstream service returned an error",
		Status:  fiber.StatusBadGateway,
		Err:     err,
	}
}

// NewUpstreamTimeout maps an upstream timeout to 504.
func NewUpstreamTimeout(err error) *UpstreamError {
	return &UpstreamError{
		Code:    "UPSTREAM_TIMEOUT",
		Message: "Upstream service timed out",
		Status:  fiber.StatusGatewayTimeout,
		Err:     err,
	}
}

// NewUpstreamUnknown maps any other upstream failure to 500.
func NewUpstreamUnknown(err error) *UpstreamError {
	return &UpstreamError{
		Code:    "UPSTREAM_UNKNOWN",
		Message: "Upstream request failed",
		Status:  fiber.StatusInternalServerError,
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	switch e := err.(type) {
	case *AppError:
		response = ErrorResponse{
			Error: e.Message,
			Code:  e.Code,
		}
		if e.Err != nil {
			response.Details = e.Err.Error()
		}
	case *UpstreamError:
		status = e.Status
		response = ErrorResponse{
			Error:      e.Message,
			Code:       e.Code,
			RetryAfter: e.RetryAfter,
		}
		if e.Err != nil {
			response.Details = e.Err.Error()
		}
	default:
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
