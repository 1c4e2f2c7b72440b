package identity

import "errors"

var (
	ErrTokenNotFound = errors.New("identity: token not found")
	ErrInvalidRole   = errors.New("identity: invalid role")
	ErrUnavailable   = errors.New("identity: access directory unavailable")
)
