package identity

import "strings"

// Role is the authorization role resolved from the access directory.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleHR      Role = "HR"
)

// ParseRole normalizes a raw role value from the directory.
// Comparison is case-insensitive at the source.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleManager:
		return RoleManager, nil
	case RoleHR:
		return RoleHR, nil
	default:
		return "", ErrInvalidRole
	}
}

// Identity is a chat user bound to a resolved name, role and branch.
// It is created once per chat id on the first successful token
// resolution and never changes for the process lifetime.
type Identity struct {
	ChatID int64
	Name   string
	Role   Role
	Branch string
}
