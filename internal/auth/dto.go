package auth

import "time"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// accountResponse is the safe projection of an account.
type accountResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	RoleID    int64     `json:"roleId"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// sessionResponse is the payload of login, register and refresh.
type sessionResponse struct {
	User        accountResponse `json:"user"`
	AccessToken string          `json:"accessToken"`
}

func toAccountResponse(account Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Username:  account.Username,
		RoleID:    account.RoleID,
		RoleName:  account.RoleName,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
