package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

type googleSignInRequest struct {
	// Code is the OAuth authorization code from the redirect flow.
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
	// Credential is the ID token from the popup flow. Either it or Code
	// must be present.
	Credential string `json:"credential"`
}

// GoogleSignIn signs a user in with Google. Existing accounts match by
// email; unknown addresses get a parent account.
func (h *Handler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.Cfg.GoogleClientID == "" {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, false, "Google sign-in is not configured.", nil, nil)
		return
	}
	var req googleSignInRequest
	if err := decodeJSON(r, &req); err != nil || (req.Code == "" && req.Credential == "") {
		utils.WriteJSONResponse(w, http.StatusBadRequest, false, "code or credential is required", nil, nil)
		return
	}

	rawIDToken := req.Credential
	if rawIDToken == "" {
		token, err := h.exchangeGoogleCode(r.Context(), req.Code, req.RedirectURI)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "Google sign-in failed. Please try again.", nil, nil)
			return
		}
		rawIDToken, _ = token.Extra("id_token").(string)
		if rawIDToken == "" {
			utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "Google sign-in failed. Please try again.", nil, nil)
			return
		}
	}

	payload, err := idtoken.Validate(r.Context(), rawIDToken, h.Cfg.GoogleClientID)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "Google sign-in failed. Please try again.", nil, nil)
		return
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "Google account has no email address.", nil, nil)
		return
	}
	email = strings.ToLower(email)

	u, err := h.Store.GetUserByEmail(r.Context(), email)
	if err != nil {
		u, err = h.createGoogleUser(r, email, name, picture)
		if err != nil {
			utils.WriteJSONResponse(w, http.StatusInternalServerError, false, "could not create account", nil, nil)
			return
		}
	}

	h.audit(r, u.ID, "login_google", nil)
	h.issueSession(w, r, u, "Signed in with Google.")
}

func (h *Handler) exchangeGoogleCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	if redirectURI == "" {
		redirectURI = h.Cfg.GoogleRedirectURL
	}
	conf := &oauth2.Config{
		ClientID:     h.Cfg.GoogleClientID,
		ClientSecret: h.Cfg.GoogleClientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
	return conf.Exchange(ctx, code)
}

func (h *Handler) createGoogleUser(r *http.Request, email, name, picture string) (*models.User, error) {
	id, err := utils.GenerateUserID()
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:            id,
		Username:      usernameFromEmail(email),
		Email:         email,
		FullName:      name,
		Role:          models.RoleParent,
		Status:        models.StatusActive,
		IsActive:      true,
		EmailVerified: true,
		ProfileImage:  picture,
	}
	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		// Username collision: retry once with a suffixed name.
		u.Username = fmt.Sprintf("%s-%s", u.Username, utils.GenerateRandomString(4))
		if err := h.Store.CreateUser(r.Context(), u); err != nil {
			return nil, err
		}
	}
	h.audit(r, u.ID, "register_google", nil)
	return u, nil
}
