package domain

import "time"

// Owner is the backend's embedded serialization of the account that created
// a project.
type Owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Project mirrors a server-owned record. IDs are always assigned by the
// backend; a project never enters the local collection before the create
// call round-trips.
type Project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   Owner     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
