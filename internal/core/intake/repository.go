package intake

import "context"

// Repository is the abstraction over queue storage.
//
// Accept must be atomic per request id: of any number of concurrent
// calls for the same pending id exactly one observes the transition
// and the rest get ErrNotFound.
type Repository interface {
	Add(ctx context.Context, req *Request) error
	ListPending(ctx context.Context) ([]*Request, error)
	ListArchived(ctx context.Context) ([]*Request, error)
	Accept(ctx context.Context, id string) (*Request, error)
}
