// Package firebase is a thin client for the Firebase Identity Toolkit REST API.
// The JS SDK used to misbehave for a handful of accounts, so everything here
// talks to the REST endpoints directly and surfaces Firebase's own error codes.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1/accounts"

// DefaultTimeout bounds every Identity Toolkit call.
const DefaultTimeout = 30 * time.Second

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient builds a client keyed by the public web API key. baseURL may be
// empty to use the production endpoint; tests point it at a local server.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Enabled reports whether the client has an API key configured. Without one,
// the Firebase leg of the auth chain is skipped entirely.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// Account is the subset of the Identity Toolkit account payload we use.
type Account struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// SignUp creates an email/password account and returns the new account with
// its ID token.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, ":signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignInWithPassword exchanges email/password for an ID token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, ":signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// UpdateProfile sets the display name on the account owning idToken.
func (c *Client) UpdateProfile(ctx context.Context, idToken, displayName string) (*Account, error) {
	return c.post(ctx, ":update", map[string]interface{}{
		"idToken":           idToken,
		"displayName":       displayName,
		"returnSecureToken": true,
	})
}

// Lookup resolves an ID token to its account. Used by the linking endpoints
// to verify tokens minted on another device.
func (c *Client) Lookup(ctx context.Context, idToken string) (*Account, error) {
	var out struct {
		Users []Account `json:"users"`
	}
	if err := c.do(ctx, ":lookup", map[string]interface{}{"idToken": idToken}, &out); err != nil {
		return nil, err
	}
	if len(out.Users) == 0 {
		return nil, &Error{Code: "USER_NOT_FOUND", Message: "no account for token"}
	}
	return &out.Users[0], nil
}

// SendPasswordReset triggers Firebase's password-reset email for the address.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, ":sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, &struct{}{})
}

func (c *Client) post(ctx context.Context, op string, body map[string]interface{}) (*Account, error) {
	var acct Account
	if err := c.do(ctx, op, body, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *Client) do(ctx context.Context, op string, body map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s%s?key=%s", c.baseURL, op, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var fail struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(res.Body).Decode(&fail); decodeErr != nil || fail.Error.Message == "" {
			return &Error{Code: fmt.Sprintf("HTTP_%d", res.StatusCode), Message: "identity toolkit request failed"}
		}
		return &Error{Code: fail.Error.Message, Message: FriendlyMessage(fail.Error.Message)}
	}

	return json.NewDecoder(res.Body).Decode(out)
}
