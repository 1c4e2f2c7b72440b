package intake

import "errors"

var (
	ErrNotFound         = errors.New("intake: request not found")
	ErrPermissionDenied = errors.New("intake: permission denied")
	ErrInvalidEmployee  = errors.New("intake: invalid employee")
	ErrInvalidReason    = errors.New("intake: invalid reason")
	ErrInvalidDate      = errors.New("intake: invalid effective date")
	ErrInvalidSubmitter = errors.New("intake: invalid submitter")
)
