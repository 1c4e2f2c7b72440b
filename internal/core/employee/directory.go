package employee

import "context"

// Directory resolves employee codes against the employee directory.
// Codes are compared exactly after trimming surrounding whitespace.
// Implementations return ErrNotFound for unknown codes and
// ErrUnavailable when the directory cannot be reached.
type Directory interface {
	Resolve(ctx context.Context, code string) (*Record, error)
}
