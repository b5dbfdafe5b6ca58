package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/cache"
	"github.com/pitchside/academy-api/internal/config"
	"github.com/pitchside/academy-api/internal/firebase"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/store"
	"github.com/pitchside/academy-api/internal/utils"
)

const refreshCookieName = "refresh_token"

// Handler carries every dependency the v1 endpoints need.
type Handler struct {
	Store    *store.Store
	Cfg      *config.Config
	Firebase *firebase.Client
	Cache    cache.Cache
	Blob     utils.BlobStorage
}

func NewHandler(s *store.Store, cfg *config.Config, fb *firebase.Client, c cache.Cache, blob utils.BlobStorage) *Handler {
	return &Handler{Store: s, Cfg: cfg, Firebase: fb, Cache: c, Blob: blob}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// sessionPayload is the data block every successful auth response carries.
type sessionPayload struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// issueSession mints an access token, stores a rotating refresh token behind
// an HttpOnly cookie, and writes the standard success envelope.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, u *models.User, message string) {
	access, err := auth.GenerateAccessToken(h.Cfg, u.ID, string(u.Role))
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create session", nil, nil)
		return
	}
	plain := utils.RandomToken()
	expiry := time.Now().Add(h.Cfg.RefreshTokenTTL)
	if err := h.Store.SaveRefreshToken(r.Context(), u.ID, plain, expiry); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create session", nil, nil)
		return
	}
	setRefreshCookie(w, plain, expiry)

	_ = h.Store.TouchLastSignIn(r.Context(), u.ID)
	utils.WriteJSONResponse(w, http.StatusOK, true, message, sessionPayload{User: u, AccessToken: access}, nil)
}

func setRefreshCookie(w http.ResponseWriter, value string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/api",
		Expires:  expiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) audit(r *http.Request, userID, action string, details map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   utils.DatatypesJSONFromMap(details),
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	_ = h.Store.RecordAudit(r.Context(), entry)
}
