package domain

// Role determines which dashboard a user lands on and which projects the
// backend lets them see.
type Role string

const (
	RoleWorker Role = "WORKER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleAdmin
}

// User is the authenticated identity held client-side. It carries no
// password and no tokens; credentials live in durable storage only.
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
