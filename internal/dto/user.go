package dto

import "time"

type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,min=2,max=50"`
	LastName  string `json:"last_name" binding:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=100"`
	// RoleID is accepted for wire compatibility but always discarded:
	// new accounts get the configured default role.
	RoleID *uint `json:"role_id" binding:"omitempty"`
	TeamID *uint `json:"team_id" binding:"omitempty"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,min=2,max=50"`
	LastName  string `json:"last_name" binding:"omitempty,min=2,max=50"`
	Email     string `json:"email" binding:"omitempty,email"`
	RoleID    *uint  `json:"role_id" binding:"omitempty,gt=0"`
	TeamID    *uint  `json:"team_id" binding:"omitempty,gt=0"`
}

// UserResponse is the outbound shape of a user. It never carries the
// password hash.
type UserResponse struct {
	UserID    uint      `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	RoleID    uint      `json:"role_id"`
	TeamID    *uint     `json:"team_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStatistics is the read-only aggregate over the whole user population.
type UserStatistics struct {
	TotalUsers   int64          `json:"total_users"`
	UsersByRole  map[uint]int64 `json:"users_by_role"`
	WithTeam     int64          `json:"with_team"`
	WithoutTeam  int64          `json:"without_team"`
	LastSignupAt *time.Time     `json:"last_signup_at,omitempty"`
}
