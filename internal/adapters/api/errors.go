package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
)

// ErrUnauthorized matches any API response with status 401
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx answer of the API
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// Is maps statuses to the sentinels callers switch on
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized, domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrInvalidInput:
		return len(e.Fields) > 0
	}
	return false
}

// FieldErrors returns the field to messages map carried by a validation error
func FieldErrors(err error) (map[string][]string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return apiErr.Fields, true
	}
	return nil, false
}

// Message returns the API message of err, or fallback when there is none
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorBody covers the error shapes the API sends:
// {"message": "..."}, {"error": "..."} and {"errors": {"field": ["msg"]}}
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func (b errorBody) toError(status int) *Error {
	msg := b.Message
	if msg == "" {
		msg = b.Error
	}
	if msg == "" && len(b.Errors) > 0 {
		msg = firstFieldMessage(b.Errors)
	}
	return &Error{Status: status, Message: msg, Fields: b.Errors}
}

func firstFieldMessage(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(fields[k]) > 0 {
			return strings.TrimSpace(fields[k][0])
		}
	}
	return ""
}
