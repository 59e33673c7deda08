package rolemenus

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/accesshub/accesshub/internal/platform/httpx"
	"github.com/accesshub/accesshub/internal/rbac"
)

// Handler manages grant administration endpoints. Grant administration is
// resource-independent meta-administration, so the coarse superuser gate
// applies instead of a per-menu capability.
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

// MountRoutes registers grant routes behind the superuser gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireSuperuser())
		r.Get("/", h.list)
		r.Post("/", h.upsert)
		r.Put("/", h.replace)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var roleID *int64
	if raw := r.URL.Query().Get("roleId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Error(w, fmt.Errorf("%w: invalid roleId filter", httpx.ErrValidation))
			return
		}
		roleID = &id
	}
	grants, err := h.service.ListGrants(r.Context(), roleID)
	if err != nil {
		h.logger.Error("list grants", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Role menus fetched successfully", toResponses(grants))
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertGrantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err)))
		return
	}
	grant, err := h.service.UpsertGrant(r.Context(), Grant{
		RoleID:    req.RoleID,
		MenuID:    req.MenuID,
		CanRead:   req.CanRead,
		CanWrite:  req.CanWrite,
		CanUpdate: req.CanUpdate,
		CanDelete: req.CanDelete,
	})
	if err != nil {
		h.logger.Error("upsert grant", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "Menu assigned to role successfully", toResponse(grant))
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceGrantsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err)))
		return
	}
	grants := make([]Grant, len(req.Permissions))
	for i, p := range req.Permissions {
		grants[i] = Grant{
			RoleID:    req.RoleID,
			MenuID:    p.MenuID,
			CanRead:   p.CanRead,
			CanWrite:  p.CanWrite,
			CanUpdate: p.CanUpdate,
			CanDelete: p.CanDelete,
		}
	}
	replaced, err := h.service.ReplaceForRole(r.Context(), req.RoleID, grants)
	if err != nil {
		h.logger.Error("replace grants", slog.Any("error", err), slog.Int64("roleId", req.RoleID))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Role permissions updated successfully", toResponses(replaced))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid grant id", httpx.ErrValidation))
		return
	}
	if err := h.service.DeleteGrant(r.Context(), id); err != nil {
		h.logger.Warn("delete grant", slog.Any("error", err), slog.Int64("id", id))
		httpx.Error(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "Role menu assignment deleted successfully", nil)
}

func validationDetail(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("field %s failed on %s", errs[0].Field(), errs[0].Tag())
	}
	return "invalid request"
}
