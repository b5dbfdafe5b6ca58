package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pitchside/academy-api/internal/utils"
)

// SweepOnLogoutParam intercepts any request carrying ?logout= and tears the
// session down before the route handler ever runs. The response tells the
// client where to go next.
func (h *Handler) SweepOnLogoutParam(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("logout") {
			next.ServeHTTP(w, r)
			return
		}
		if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
			if rt, err := h.Store.FindRefreshToken(r.Context(), cookie.Value); err == nil {
				_ = h.Store.RevokeAllRefreshTokens(r.Context(), rt.UserID)
				h.audit(r, rt.UserID, "logout_sweep", nil)
			}
		}
		expireRefreshCookie(w, r)
		if h.Cache != nil {
			_ = h.Cache.Clear(r.Context())
		}
		utils.WriteJSONResponse(w, http.StatusOK, true, "Logged out.", map[string]string{
			"redirect": fmt.Sprintf("/auth?t=%d", time.Now().UnixMilli()),
		}, nil)
	})
}
