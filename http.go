package bearer

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// APIResponse is the uniform JSON envelope for every endpoint.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the error body inside the envelope. Message stays
// generic for auth failures so nothing about accounts or token
// internals leaks.
type APIError struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope.
func Fail(message, textCode string) APIResponse {
	return APIResponse{Success: false, Error: &APIError{Message: message, TextCode: textCode}}
}

// StatusFromError maps a rich error to an HTTP status. The HTTP layer
// decides codes from the error kind, never from inspecting exception
// types or message text.
func StatusFromError(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	if richErr.Code > 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return http.StatusUnauthorized
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RenderError writes the envelope for err with the mapped status.
func RenderError(ctx router.Context, err error) error {
	status := StatusFromError(err)

	var richErr *errors.Error
	if errors.As(err, &richErr) && status < http.StatusInternalServerError {
		return ctx.JSON(status, Fail(richErr.Message, richErr.TextCode))
	}

	return ctx.JSON(http.StatusInternalServerError, Fail("internal server error", "INTERNAL"))
}

// ExtractBearerToken pulls the raw token out of an Authorization
// header value, tolerating a missing scheme.
func ExtractBearerToken(header, scheme string) string {
	if header == "" {
		return ""
	}
	if scheme == "" {
		scheme = "Bearer"
	}
	if len(header) > len(scheme)+1 && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}
	return strings.TrimSpace(header)
}
