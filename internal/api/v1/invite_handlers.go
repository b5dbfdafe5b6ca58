package v1

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/invite"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
)

type createInviteRequest struct {
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	PlayerID  *uint       `json:"player_id"`
	AcademyID *uint       `json:"academy_id"`
}

// CreateInvite issues a server-stored invitation token. Staff only.
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "email is required", nil, nil)
		return
	}
	if req.Role != "" {
		if _, ok := models.ParseRole(string(req.Role)); !ok || req.Role == models.RoleSuperadmin {
			utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid role", nil, nil)
			return
		}
	}
	u := auth.GetUserFromCtx(r.Context())
	inv := &models.Invite{
		Token:     uuid.NewString(),
		Email:     req.Email,
		Role:      req.Role,
		PlayerID:  req.PlayerID,
		AcademyID: req.AcademyID,
		ExpiresAt: time.Now().Add(h.Cfg.InviteTTL),
		CreatedBy: u.ID,
	}
	if err := h.Store.CreateInvite(r.Context(), inv); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create invitation", nil, nil)
		return
	}
	h.audit(r, u.ID, "create_invite", map[string]interface{}{"email": req.Email})
	utils.WriteJSONResponse(w, http.StatusCreated, true, "Invitation created.", map[string]interface{}{
		"token":      inv.Token,
		"email":      inv.Email,
		"expires_at": inv.ExpiresAt,
	}, nil)
}

// VerifyInvite validates a token of either kind and returns the prefill
// data for the registration form.
func (h *Handler) VerifyInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "token is required", nil, nil)
		return
	}

	if inv, err := h.Store.FindLiveInvite(r.Context(), token); err == nil {
		utils.WriteJSONResponse(w, http.StatusOK, true, "", map[string]interface{}{
			"email":      inv.Email,
			"role":       inv.Role,
			"player_id":  inv.PlayerID,
			"academy_id": inv.AcademyID,
		}, nil)
		return
	}

	ct, err := invite.Decode(token, time.Now())
	if err != nil {
		msg := "This invitation link is not valid."
		if err == invite.ErrExpired {
			msg = "This invitation has expired. Please ask for a new one."
		}
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, msg, nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", map[string]interface{}{
		"email":      ct.Email,
		"role":       ct.Role,
		"player_id":  ct.PlayerID,
		"academy_id": ct.AcademyID,
	}, nil)
}

func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.Store.ListInvites(r.Context())
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not load invitations", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", invites, nil)
}
