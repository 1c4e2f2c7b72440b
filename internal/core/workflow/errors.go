package workflow

import "errors"

var ErrNoActiveFlow = errors.New("workflow: no active flow")
