package identity

import "context"

// Access is one access-directory row matched by a token.
// The role is kept raw here; normalization happens in the gate.
type Access struct {
	Name   string
	Role   string
	Branch string
}

// Directory resolves one-time tokens against the access directory.
// Implementations return ErrTokenNotFound for unknown tokens and
// ErrUnavailable when the directory cannot be reached.
type Directory interface {
	Resolve(ctx context.Context, token string) (*Access, error)
}
