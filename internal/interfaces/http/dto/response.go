// Package dto defines the HTTP response envelope and the error code to
// status mapping.
package dto

import (
	"net/http"

	"github.com/campusstore/backend/internal/domain/shared"
)

// Response is the uniform HTTP response envelope
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorBody carries the error code and message
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Meta carries pagination metadata
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta creates a success response with pagination
// metadata
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, PageSize: pageSize},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, RequestID: requestID},
	}
}

// Generic error codes used by the HTTP layer itself
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// GetHTTPStatus maps a domain error code to an HTTP status code
func GetHTTPStatus(code string) int {
	switch code {
	case shared.CodeNotFound:
		return http.StatusNotFound
	case shared.CodeValidation, ErrCodeBadRequest:
		return http.StatusBadRequest
	case shared.CodeInvalidSetConfiguration, shared.CodeLocationRequired:
		return http.StatusUnprocessableEntity
	case shared.CodeInsufficientStock,
		shared.CodeInvalidStateTransition,
		shared.CodeInvalidState,
		shared.CodeConcurrencyConflict,
		"ALREADY_EXISTS":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
