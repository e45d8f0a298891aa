package session

import "errors"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrMissingID    = errors.New("session token has no session id")
)
