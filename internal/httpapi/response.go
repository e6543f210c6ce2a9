package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sidequest/internal/app"
	"sidequest/internal/card"
	"sidequest/internal/dice"
	"sidequest/internal/generate"
	"sidequest/internal/persist"
	"sidequest/internal/prefs"
	"sidequest/internal/store"
	"sidequest/internal/undo"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// respondErr picks the status from the error chain.
func respondErr(c *gin.Context, err error) {
	status, code := classify(err)
	respondError(c, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, generate.ErrNotReady):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, generate.ErrNotFound),
		errors.Is(err, app.ErrCardMissing),
		errors.Is(err, undo.ErrCardNotFound),
		errors.Is(err, undo.ErrNothingToUndo),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, card.ErrDuplicateTag):
		return http.StatusConflict, "duplicate_tag"
	case errors.Is(err, persist.ErrNotAuthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, persist.ErrDisabled):
		return http.StatusNotImplemented, "persistence_disabled"
	case errors.Is(err, persist.ErrTimedOut):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, card.ErrUnknownKind),
		errors.Is(err, card.ErrUnknownField),
		errors.Is(err, app.ErrNotLockable),
		errors.Is(err, app.ErrUnknownArea),
		errors.Is(err, dice.ErrInvalidSides),
		errors.Is(err, dice.ErrInvalidNotation),
		errors.Is(err, prefs.ErrUnknownTheme),
		errors.Is(err, store.ErrEmptyQuery):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
