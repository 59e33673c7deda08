package menus

import "time"

type CreateMenuRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Path       string  `json:"path" validate:"required,max=200,startswith=/"`
	Icon       *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	ParentID   *int64  `json:"parentId,omitempty" validate:"omitempty,gt=0"`
	OrderIndex int32   `json:"orderIndex" validate:"gte=0"`
}

type UpdateMenuRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Path       string  `json:"path" validate:"required,max=200,startswith=/"`
	Icon       *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	ParentID   *int64  `json:"parentId,omitempty" validate:"omitempty,gt=0"`
	OrderIndex int32   `json:"orderIndex" validate:"gte=0"`
}

type MenuResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Icon       *string   `json:"icon,omitempty"`
	ParentID   *int64    `json:"parentId,omitempty"`
	OrderIndex int32     `json:"orderIndex"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toResponse(menu Menu) MenuResponse {
	return MenuResponse{
		ID:         menu.ID,
		Name:       menu.Name,
		Path:       menu.Path,
		Icon:       menu.Icon,
		ParentID:   menu.ParentID,
		OrderIndex: menu.OrderIndex,
		CreatedAt:  menu.CreatedAt,
		UpdatedAt:  menu.UpdatedAt,
	}
}

func toResponses(list []Menu) []MenuResponse {
	out := make([]MenuResponse, len(list))
	for i, menu := range list {
		out[i] = toResponse(menu)
	}
	return out
}
