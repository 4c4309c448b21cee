// File: internal/session/snapshot.go
package session

import (
	"blog_backend/internal/user"

	"github.com/google/uuid"
)

// Snapshot is the slice of a user kept in the client's session.
// Fields added to User do not reach the session unless copied here.
type Snapshot struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Picture string    `json:"picture,omitempty"`
}

// Project copies id, name, email and picture out of u.
func Project(u *user.User) Snapshot {
	s := Snapshot{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
	if u.Picture != nil {
		s.Picture = *u.Picture
	}
	return s
}
