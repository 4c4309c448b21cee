// File: internal/user/model.go
package user

import (
	"fmt"
	"strings"
	"time"

	"blog_backend/internal/common"

	"github.com/google/uuid"
)

// Role is the authorization level of a user. It is stored by name.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Role keys are what downstream authorization checks compare against.
const (
	RoleKeyGuest = "ROLE_GUEST"
	RoleKeyUser  = "ROLE_USER"
	RoleKeyAdmin = "ROLE_ADMIN"
)

// DefaultRole is assigned to every user created through a login.
const DefaultRole = RoleGuest

// Key returns the machine-readable authority string, e.g. "ROLE_USER".
func (r Role) Key() string {
	switch r {
	case RoleGuest:
		return RoleKeyGuest
	case RoleUser:
		return RoleKeyUser
	case RoleAdmin:
		return RoleKeyAdmin
	default:
		return ""
	}
}

func (r Role) Valid() bool {
	return r.Key() != ""
}

// ParseRole accepts either a role name ("USER") or a role key ("ROLE_USER").
func ParseRole(s string) (Role, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")
	r := Role(name)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User represents the user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Name             string  `gorm:"type:varchar(255);not null"`
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_lower,expression:LOWER(email)"` // unique ignoring case
	Picture          *string `gorm:"type:text"`
	Role             Role    `gorm:"type:varchar(20);not null"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Update refreshes the provider-owned profile fields. Email and role are never touched.
func (u *User) Update(name string, picture *string) *User {
	u.Name = name
	u.Picture = picture
	return u
}

func (u *User) RoleKey() string {
	return u.Role.Key()
}

// --- DTOs ---

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Picture   *string   `json:"picture,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Picture:   u.Picture,
		Role:      u.RoleKey(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ChangeRoleRequest is the body of the admin role change endpoint.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=GUEST USER ADMIN ROLE_GUEST ROLE_USER ROLE_ADMIN"`
}
