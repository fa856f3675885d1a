package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
	"github.com/go-chi/chi"
	"github.com/go-chi/httprate"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI

	rateLimit  int
	rateWindow time.Duration
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// WithRateLimit throttles the credential endpoints per client IP. Behind the
// gateway the client is taken from X-Forwarded-For. A limit of zero disables
// throttling.
func (h *Handler) WithRateLimit(limit int, window time.Duration) *Handler {
	h.rateLimit = limit
	h.rateWindow = window
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httprate.Limit(h.rateLimit, h.rateWindow,
				httprate.WithKeyFuncs(httprate.KeyByRealIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					h.WriteAppError(w, r, internal.ErrTooManyRequests)
				}),
			))
		}
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/request-password", h.RequestPassword)
	})

	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
	r.Post("/change-password", h.ChangePassword)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidBody)
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", result)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidBody)
		return
	}

	result, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token refreshed successfully", result)
}

// Logout handles POST /auth/logout. The body is optional and the call
// always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.DebugContext(r.Context(), "ignoring unreadable logout body", "error", err)
	}

	h.Service.Logout(r.Context(), dto.RefreshToken)
	h.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidBody)
		return
	}

	view, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "User registered successfully", view)
}

// RequestPassword handles POST /auth/request-password
func (h *Handler) RequestPassword(w http.ResponseWriter, r *http.Request) {
	var dto RequestPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidBody)
		return
	}

	if err := h.Service.RequestPassword(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password has been sent to your email. Please check your inbox.", nil)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrUnauthenticated)
		return
	}

	view, err := h.Service.CurrentUser(r.Context(), p.UserID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "User information retrieved", view)
}

// ChangePassword handles POST /auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrUnauthenticated)
		return
	}

	var dto ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidBody)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), p.UserID, dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password changed successfully", nil)
}
