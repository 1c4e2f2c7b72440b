package intake

import (
	"time"

	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
)

// Status is the lifecycle state of a termination request. Transitions
// are monotonic: pending to archived, never back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// Request is the finalized, validated record produced by one completed
// workflow run. It is created only by the workflow on confirmation and
// mutated only by the queue (status transition); it is never deleted.
type Request struct {
	ID            string
	Employee      employee.Record
	Reason        string
	EffectiveDate time.Time
	HasLetter     bool
	Status        Status
	SubmittedBy   string
	SubmittedAt   time.Time
}

// Clone returns a copy safe to hand across goroutine boundaries.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
