package session

// Role is the privilege level remembered for the logged-in operator.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only the two roles the backend issues.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return RoleNone, false
}

func (r Role) String() string {
	return string(r)
}
