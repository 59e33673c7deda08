package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/accesshub/accesshub/internal/authn"
	"github.com/accesshub/accesshub/internal/platform/httpx"
	"github.com/accesshub/accesshub/internal/token"
)

// RefreshCookieName is the httpOnly cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	tokens       *token.Service
	denylist     *token.Denylist
	validator    *validator.Validate
	secureCookie bool
}

// NewHandler constructs a Handler instance. secureCookie should be true in
// production so the refresh cookie is only sent over TLS.
func NewHandler(logger *slog.Logger, service *Service, tokens *token.Service, denylist *token.Denylist, secureCookie bool) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		tokens:       tokens,
		denylist:     denylist,
		validator:    validator.New(),
		secureCookie: secureCookie,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/refresh", h.handleRefresh)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: email and password are required", httpx.ErrValidation))
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	h.issueSession(w, r, account, http.StatusOK, "Login successful")
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: invalid request body", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, fmt.Errorf("%w: %s", httpx.ErrValidation, validationDetail(err)))
		return
	}

	account, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.logger.Warn("register failed", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	h.issueSession(w, r, account, http.StatusCreated, "Registration successful")
}

// handleRefresh rotates the token pair. The old refresh token is denylisted
// so it cannot be replayed; on any failure the cookie is left untouched.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "refresh token not found")
		return
	}

	claims, err := h.tokens.VerifyRefresh(cookie.Value)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "invalid refresh token")
		return
	}
	if h.denylist.IsRevoked(r.Context(), claims.TokenID) {
		h.logger.Warn("revoked refresh token replayed", slog.Int64("userId", claims.Principal.UserID))
		httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "invalid refresh token")
		return
	}

	account, err := h.service.AccountByID(r.Context(), claims.Principal.UserID)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthenticated", "invalid refresh token")
		return
	}

	if err := h.denylist.Revoke(r.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
		// Rotation still proceeds; the denylist is best-effort hardening.
		h.logger.Warn("denylist revoke failed", slog.Any("error", err))
	}
	h.issueSession(w, r, account, http.StatusOK, "Token refreshed successfully")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	httpx.Success(w, http.StatusOK, "Logged out successfully", nil)
}

// issueSession issues a fresh token pair, sets the refresh cookie and writes
// the session payload.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, account Account, status int, message string) {
	pair, err := h.tokens.Issue(authn.Principal{
		UserID: account.ID,
		Email:  account.Email,
		RoleID: account.RoleID,
	})
	if err != nil {
		h.logger.Error("issue tokens", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal", "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.tokens.RefreshTTL().Seconds()),
	})
	httpx.Success(w, status, message, sessionResponse{
		User:        toAccountResponse(account),
		AccessToken: pair.AccessToken,
	})
}

func validationDetail(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("field %s failed on %s", errs[0].Field(), errs[0].Tag())
	}
	return "invalid request"
}
