package v1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

/* ------------------ Approval queue ------------------ */

// ListPendingUsers returns coach/admin registrations awaiting review.
func (h *Handler) ListPendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListPendingUsers(r.Context())
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load pending users", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", users, nil)
}

func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, models.StatusActive, "User approved.")
}

func (h *Handler) RejectUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, models.StatusRejected, "User rejected.")
}

func (h *Handler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, models.StatusSuspended, "User suspended.")
}

func (h *Handler) setUserStatus(w http.ResponseWriter, r *http.Request, status models.UserStatus, message string) {
	id := chi.URLParam(r, "id")
	target, err := h.Store.GetUserByID(r.Context(), id)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "user not found", nil, nil)
		return
	}
	actor := auth.GetUserFromCtx(r.Context())
	if target.Role == models.RoleSuperadmin {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "superadmin accounts cannot be modified", nil, nil)
		return
	}
	if err := h.Store.SetUserStatus(r.Context(), id, status); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not update user", nil, nil)
		return
	}
	// Suspension and rejection kill any live sessions immediately.
	if status == models.StatusRejected || status == models.StatusSuspended {
		_ = h.Store.RevokeAllRefreshTokens(r.Context(), id)
	}
	h.audit(r, actor.ID, "set_user_status", map[string]interface{}{
		"target": id,
		"status": status,
	})
	utils.WriteJSONResponse(w, http.StatusOK, true, message, nil, nil)
}

/* ------------------ Users & audit ------------------ */

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if roleStr := r.URL.Query().Get("role"); roleStr != "" {
		role, ok := models.ParseRole(roleStr)
		if !ok {
			utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid role", nil, nil)
			return
		}
		users, err := h.Store.ListUsersByRole(r.Context(), role)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load users", nil, nil)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, true, "", users, nil)
		return
	}
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load users", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", users, nil)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.Store.ListAuditLogs(r.Context(), limit)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load audit log", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", logs, nil)
}
