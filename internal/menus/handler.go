package menus

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/accesshub/accesshub/internal/authn"
	"github.com/accesshub/accesshub/internal/platform/httpx"
	"github.com/accesshub/accesshub/internal/rbac"
)

// ResourcePath is the menu path that authorizes menu management.
const ResourcePath = "/menus"

// Handler manages menu management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authz rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz, validator: validator.New()}
}

// MountRoutes registers menu routes. The list route is only authenticated:
// with ?forUser=true any principal may read their own permitted menus, while
// the full listing is capability-checked inside the handler.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Guard.Middleware).Get("/", h.list)
	r.With(h.authz.RequireCapability(ResourcePath, rbac.CapabilityWrite)).Post("/", h.create)
	r.With(h.authz.RequireCapability(ResourcePath, rbac.CapabilityUpdate)).Put("/{id}", h.update)
	r.With(h.authz.RequireCapability(ResourcePath, rbac.CapabilityDelete)).Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := authn.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
		return
	}

	if r.URL.Query().Get("forUser") == "true" {
		menus, err := h.service.ListReadableMenus(r.Context(), principal.RoleID)
		if err != nil {
			h.logger.Error("list user menus", slog.Any("error", err))
			httpx.Error(w, err)
			return
		}
		httpx.Success(w, http.StatusOK, "Menus fetched successfully", toResponses(menus))
		return
	}

	if err := h.authz.Resolver.Resolve(r.Context(), principal, ResourcePath, rbac.CapabilityRead); err != nil {
		httpx.Error(w, mapResolution(err))
		return
	}
	menus, err := h.service.ListMenus(r.Context())
	if err != nil {
		h.logger.Error("list menus", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Menus fetched successfully", toResponses(menus))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err)))
		return
	}
	menu, err := h.service.CreateMenu(r.Context(), Menu{
		Name:       req.Name,
		Path:       req.Path,
		Icon:       req.Icon,
		ParentID:   req.ParentID,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.logger.Error("create menu", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "Menu created successfully", toResponse(menu))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	var req UpdateMenuRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err)))
		return
	}
	menu, err := h.service.UpdateMenu(r.Context(), Menu{
		ID:         id,
		Name:       req.Name,
		Path:       req.Path,
		Icon:       req.Icon,
		ParentID:   req.ParentID,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.logger.Error("update menu", slog.Any("error", err), slog.Int64("id", id))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Menu updated successfully", toResponse(menu))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteMenu(r.Context(), id); err != nil {
		h.logger.Warn("delete menu", slog.Any("error", err), slog.Int64("id", id))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Menu deleted successfully", nil)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid menu id", httpx.ErrValidation))
		return 0, false
	}
	return id, true
}

func mapResolution(err error) error {
	switch {
	case rbac.IsDenied(err):
		return fmt.Errorf("%w: required canRead on %s", httpx.ErrForbidden, ResourcePath)
	case rbac.IsResourceNotConfigured(err):
		return fmt.Errorf("%w: %s", httpx.ErrResourceNotConfigured, ResourcePath)
	default:
		return err
	}
}

func validationDetail(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("field %s failed on %s", errs[0].Field(), errs[0].Tag())
	}
	return "invalid request"
}
