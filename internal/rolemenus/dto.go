package rolemenus

import "time"

type UpsertGrantRequest struct {
	RoleID    int64 `json:"roleId" validate:"required,gt=0"`
	MenuID    int64 `json:"menuId" validate:"required,gt=0"`
	CanRead   bool  `json:"canRead"`
	CanWrite  bool  `json:"canWrite"`
	CanUpdate bool  `json:"canUpdate"`
	CanDelete bool  `json:"canDelete"`
}

type GrantSpec struct {
	MenuID    int64 `json:"menuId" validate:"required,gt=0"`
	CanRead   bool  `json:"canRead"`
	CanWrite  bool  `json:"canWrite"`
	CanUpdate bool  `json:"canUpdate"`
	CanDelete bool  `json:"canDelete"`
}

// ReplaceGrantsRequest replaces the entire grant set of one role.
type ReplaceGrantsRequest struct {
	RoleID      int64       `json:"roleId" validate:"required,gt=0"`
	Permissions []GrantSpec `json:"permissions" validate:"dive"`
}

type GrantResponse struct {
	ID        int64     `json:"id"`
	RoleID    int64     `json:"roleId"`
	MenuID    int64     `json:"menuId"`
	CanRead   bool      `json:"canRead"`
	CanWrite  bool      `json:"canWrite"`
	CanUpdate bool      `json:"canUpdate"`
	CanDelete bool      `json:"canDelete"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(grant Grant) GrantResponse {
	return GrantResponse{
		ID:        grant.ID,
		RoleID:    grant.RoleID,
		MenuID:    grant.MenuID,
		CanRead:   grant.CanRead,
		CanWrite:  grant.CanWrite,
		CanUpdate: grant.CanUpdate,
		CanDelete: grant.CanDelete,
		CreatedAt: grant.CreatedAt,
		UpdatedAt: grant.UpdatedAt,
	}
}

func toResponses(list []Grant) []GrantResponse {
	out := make([]GrantResponse, len(list))
	for i, grant := range list {
		out[i] = toResponse(grant)
	}
	return out
}
