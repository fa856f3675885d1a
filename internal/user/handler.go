package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Routes mounts the handlers; callers guard the group with the ADMIN role.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Get("/roles", h.ListRoles)
	r.Get("/ids", h.ListActiveIDs)
	r.Get("/role/{role}", h.ListActiveIDsByRole)
	r.Get("/{id}", h.GetUser)
	r.Put("/{id}/activate", h.ActivateUser)
	r.Put("/{id}/deactivate", h.DeactivateUser)
	r.Put("/{id}/roles", h.UpdateUserRoles)
}

// ListUsers handles GET /auth/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	page, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Users retrieved", page)
}

// ListRoles handles GET /auth/users/roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.RoleNames(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Roles retrieved", roles)
}

// ListActiveIDs handles GET /auth/users/ids with an optional role filter.
func (h *Handler) ListActiveIDs(w http.ResponseWriter, r *http.Request) {
	h.writeActiveIDs(w, r, r.URL.Query().Get("role"))
}

// ListActiveIDsByRole handles GET /auth/users/role/{role}
func (h *Handler) ListActiveIDsByRole(w http.ResponseWriter, r *http.Request) {
	h.writeActiveIDs(w, r, chi.URLParam(r, "role"))
}

func (h *Handler) writeActiveIDs(w http.ResponseWriter, r *http.Request, role string) {
	ids, err := h.Service.ActiveUserIDs(r.Context(), role)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Active user IDs retrieved", ids)
}

// GetUser handles GET /auth/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User retrieved", view)
}

// ActivateUser handles PUT /auth/users/{id}/activate
func (h *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Activate(r.Context(), id, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User activated", view)
}

// DeactivateUser handles PUT /auth/users/{id}/deactivate
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Deactivate(r.Context(), id, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User deactivated", view)
}

// UpdateUserRoles handles PUT /auth/users/{id}/roles
func (h *Handler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var dto UpdateRolesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, r, internal.ErrInvalidBody)
		return
	}

	view, err := h.Service.UpdateRoles(r.Context(), id, dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User roles updated", view)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteAppError(w, r, internal.NewValidationFieldError("id", "id must be a positive integer", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return id, true
}
