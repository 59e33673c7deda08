package users

import "time"

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
}

// UserResponse is the safe projection of a user: no password material.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	RoleID    int64     `json:"roleId"`
	RoleName  string    `json:"roleName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToResponse strips password material from a user.
func ToResponse(user User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		RoleID:    user.RoleID,
		RoleName:  user.RoleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toResponses(list []User) []UserResponse {
	out := make([]UserResponse, len(list))
	for i, user := range list {
		out[i] = ToResponse(user)
	}
	return out
}
