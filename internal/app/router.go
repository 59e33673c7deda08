package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/accesshub/accesshub/internal/auth"
	"github.com/accesshub/accesshub/internal/menus"
	"github.com/accesshub/accesshub/internal/platform/httpx"
	"github.com/accesshub/accesshub/internal/rolemenus"
	"github.com/accesshub/accesshub/internal/roles"
	"github.com/accesshub/accesshub/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	RolesHandler     *roles.Handler
	MenusHandler     *menus.Handler
	RoleMenusHandler *rolemenus.Handler
	UsersHandler     *users.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.Success(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(AuthRateLimiter())
		params.AuthHandler.MountRoutes(r)
	})
	r.Route("/roles", params.RolesHandler.MountRoutes)
	r.Route("/menus", params.MenusHandler.MountRoutes)
	r.Route("/role-menus", params.RoleMenusHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "NotFound", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
	})

	return r
}
