package auth

import "strings"

// Role del usuario autenticado.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleModerator:
		return RoleModerator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Email    string
	Role     Role
}

// CanModerate indica si puede revisar reportes.
func (c Claims) CanModerate() bool {
	return c.Role == RoleModerator || c.Role == RoleAdmin
}
