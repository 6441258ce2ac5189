package model

import "time"

// User represents a user in the database.
type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Surname      string    `db:"surname"`
	Email        string    `db:"email"`
	PasswordHash Secret    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CreateUserRequest represents a user registration request.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=145"`
	Surname  string `json:"surname" validate:"required,min=2,max=145"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// UpdateUserRequest represents a partial user update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=145"`
	Surname  *string `json:"surname" validate:"omitempty,min=2,max=145"`
	Password *string `json:"password" validate:"omitempty,min=8,max=200"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the access token issued on login.
type AuthResponse struct {
	Auth string `json:"auth"`
}

// CreatedResponse is returned after a user is registered.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// AffectedResponse reports how many rows an update or delete touched.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// ToResponse strips credential material from u.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
	}
}
