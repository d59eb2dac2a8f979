package service

import (
	"errors"
	"net/http"

	"github.com/filecoffee/signaling/internal/v1/types"
)

// Error is a service-layer failure that maps onto both a wire error code and
// an HTTP status.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrRoomNotFound    = &Error{Code: types.CodeRoomNotFound, Status: http.StatusNotFound, Message: "room not found"}
	ErrInvalidPassword = &Error{Code: types.CodeInvalidPassword, Status: http.StatusUnauthorized, Message: "invalid password"}
	ErrRoomFull        = &Error{Code: types.CodeRoomFull, Status: http.StatusConflict, Message: "room capacity exceeded"}
	ErrNotInRoom       = &Error{Code: types.CodeNotInRoom, Status: http.StatusBadRequest, Message: "not in a room"}
	ErrRateLimited     = &Error{Code: types.CodeRateLimited, Status: http.StatusTooManyRequests, Message: "rate limit exceeded"}
)

// AsError normalizes any error into an *Error. Unknown errors collapse to an
// internal error with the invalid-message wire code; callers log the original.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return &Error{Code: types.CodeInvalidMessage, Status: http.StatusInternalServerError, Message: "internal error"}
}
