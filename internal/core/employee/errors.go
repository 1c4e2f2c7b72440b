package employee

import "errors"

var (
	ErrNotFound    = errors.New("employee: not found")
	ErrUnavailable = errors.New("employee: directory unavailable")
)
