package model

import "time"

// User is the account record. Email is the only credential identifier.
type User struct {
	ID          int64     `db:"id"`
	Email       string    `db:"email"`
	Password    string    `db:"password"`
	Name        string    `db:"name"`
	IsActive    bool      `db:"is_active"`
	IsStaff     bool      `db:"is_staff"`
	IsSuperuser bool      `db:"is_superuser"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// UserRequest is the create and full-update schema. Password is write-only.
type UserRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=255"`
}

// UserPatch is the partial-update schema; nil fields are left unchanged.
type UserPatch struct {
	Email    *string `json:"email" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

// UserResponse is returned by the create endpoint and the admin listing.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProfileResponse is the representation served to the owner on the me endpoint.
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResponse converts u to its public representation.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// NewProfileResponse converts u to the owner's profile representation.
func NewProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{Name: u.Name, Email: u.Email}
}
