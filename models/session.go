package models

// Role identifies the capability class of a logged-in user.
// The two roles are closed: anything else is rejected client-side
// before a request is made.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
)

// ValidRole reports whether r is one of the two recognized roles.
func ValidRole(r Role) bool {
	return r == RoleCitizen || r == RoleAuthority
}

// User is the identity part of an authenticated session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session holds the credential and identity for a logged-in user.
// A session with Role == RoleAuthority unlocks approve/reject; a
// citizen session never does.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CanReview reports whether the session may issue review actions.
func (s *Session) CanReview() bool {
	return s != nil && s.User.Role == RoleAuthority
}
