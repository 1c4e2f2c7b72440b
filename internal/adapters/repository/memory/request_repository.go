package memory

import (
	"context"
	"sync"

	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
)

// RequestRepository keeps the intake queue in process memory. This is
// the default storage mode and matches the reference behavior: all
// pending and archived requests are lost on restart.
type RequestRepository struct {
	mu    sync.RWMutex
	byID  map[string]*intake.Request
	order []string
}

// NewRequestRepository creates an empty queue.
func NewRequestRepository() *RequestRepository {
	return &RequestRepository{byID: make(map[string]*intake.Request)}
}

// Add stores a new request at the end of the queue.
func (r *RequestRepository) Add(_ context.Context, req *intake.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; !ok {
		r.order = append(r.order, req.ID)
	}
	r.byID[req.ID] = req.Clone()
	return nil
}

// ListPending returns pending requests in insertion order.
func (r *RequestRepository) ListPending(_ context.Context) ([]*intake.Request, error) {
	return r.list(intake.StatusPending), nil
}

// ListArchived returns archived requests in insertion order.
func (r *RequestRepository) ListArchived(_ context.Context) ([]*intake.Request, error) {
	return r.list(intake.StatusArchived), nil
}

func (r *RequestRepository) list(status intake.Status) []*intake.Request {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*intake.Request
	for _, id := range r.order {
		if req := r.byID[id]; req.Status == status {
			out = append(out, req.Clone())
		}
	}
	return out
}

// Accept transitions a pending request to archived. The write lock
// serializes concurrent accepts for the same id, so exactly one caller
// observes the transition and the rest get ErrNotFound.
func (r *RequestRepository) Accept(_ context.Context, id string) (*intake.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok || req.Status != intake.StatusPending {
		return nil, intake.ErrNotFound
	}
	req.Status = intake.StatusArchived
	return req.Clone(), nil
}
