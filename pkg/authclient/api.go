package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// Friendly replacements for statuses the backend returns without a useful
// message body.
var statusMessages = map[int]string{
	http.StatusUnauthorized:    "Invalid credentials. Please check your username and password.",
	http.StatusForbidden:       "Your account does not have access to this resource.",
	http.StatusTooManyRequests: "Too many attempts. Please wait a moment and try again.",
}

// API is the HTTP transport for the first-party backend. It keeps a cookie
// jar so the refresh-token cookie survives between calls.
type API struct {
	baseURL string
	http    *http.Client
	jar     http.CookieJar
}

func NewAPI(baseURL string) *API {
	jar, _ := cookiejar.New(nil)
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		jar: jar,
	}
}

// Jar exposes the cookie jar so the logout sweep can expire cookies.
func (a *API) Jar() http.CookieJar { return a.jar }

// BaseURL returns the backend origin the client talks to.
func (a *API) BaseURL() string { return a.baseURL }

func (a *API) do(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, newError(CodeNetwork, "could not encode request")
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, 0, newError(CodeNetwork, "could not build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (urlErr.Timeout() || errors.Is(urlErr.Err, os.ErrDeadlineExceeded)) {
			return nil, 0, newError(CodeNetwork, "The request timed out. Please try again.")
		}
		return nil, 0, newError(CodeNetwork, "Could not reach the server. Please check your connection.")
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, newError(CodeNetwork, "could not read response")
	}
	return raw, resp.StatusCode, nil
}

// call runs a request and normalizes the response into a user + message.
// Non-2xx statuses become *Error values with an http/<status> code unless
// the body carries a better message.
func (a *API) call(ctx context.Context, method, path string, payload interface{}) (*User, string, error) {
	raw, status, err := a.do(ctx, method, path, payload)
	if err != nil {
		return nil, "", err
	}
	if status < 200 || status >= 300 {
		msg := envelopeMessage(raw)
		if msg == "" {
			msg = statusMessages[status]
		}
		if msg == "" {
			msg = "The request failed. Please try again."
		}
		return nil, "", newError(httpCode(status), msg)
	}
	return Normalize(raw)
}

/* ------------------ Auth endpoints ------------------ */

func (a *API) Login(ctx context.Context, identifier, password string) (*User, string, error) {
	return a.call(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": identifier,
		"password": password,
	})
}

func (a *API) Register(ctx context.Context, data RegisterData) (*User, string, error) {
	return a.call(ctx, http.MethodPost, "/api/register", registerPayload(data))
}

// LoginFirebase exchanges a Firebase ID token for a first-party session.
func (a *API) LoginFirebase(ctx context.Context, idToken string) (*User, string, error) {
	return a.call(ctx, http.MethodPost, "/api/auth/login-firebase", map[string]string{
		"idToken": idToken,
	})
}

// RegisterFirebase links a freshly created Firebase account to a first-party
// user record.
func (a *API) RegisterFirebase(ctx context.Context, idToken string, data RegisterData) (*User, string, error) {
	payload := registerPayload(data)
	payload["idToken"] = idToken
	return a.call(ctx, http.MethodPost, "/api/auth/register-firebase", payload)
}

// DirectRegister creates an account entirely on the backend, bypassing
// Firebase. Reserved for the special-case accounts.
func (a *API) DirectRegister(ctx context.Context, data RegisterData) (*User, string, error) {
	return a.call(ctx, http.MethodPost, "/api/auth/direct-register", registerPayload(data))
}

// ResetSpecialPassword asks the backend to reset a special-case account to
// the substitute password. Returns the backend's message.
func (a *API) ResetSpecialPassword(ctx context.Context, email string) (string, error) {
	_, msg, err := a.call(ctx, http.MethodPost, "/api/auth/reset-special-password", map[string]string{
		"email": email,
	})
	return msg, err
}

func (a *API) ResetPassword(ctx context.Context, email string) (string, error) {
	_, msg, err := a.call(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": email,
	})
	return msg, err
}

// CurrentUser fetches the session's user, if any.
func (a *API) CurrentUser(ctx context.Context) (*User, error) {
	u, _, err := a.call(ctx, http.MethodGet, "/api/user", nil)
	return u, err
}

// Logout tells the backend to drop the session. Errors are returned but the
// sweep ignores them.
func (a *API) Logout(ctx context.Context) error {
	_, _, err := a.call(ctx, http.MethodPost, "/api/logout", nil)
	return err
}

func registerPayload(data RegisterData) map[string]interface{} {
	payload := map[string]interface{}{
		"username":  data.Username,
		"email":     data.Email,
		"password":  data.Password,
		"full_name": data.FullName,
	}
	if data.Phone != "" {
		payload["phone"] = data.Phone
	}
	if data.Role != "" {
		payload["role"] = data.Role
	}
	if data.AcademyID != nil {
		payload["academy_id"] = *data.AcademyID
	}
	return payload
}
