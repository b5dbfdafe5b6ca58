package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL+"/v1/accounts")
}

func TestSignInWithPassword(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":signInWithPassword"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@example.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"localId": "uid-1", "email": "asha@example.com", "idToken": "tok", "refreshToken": "rt",
		})
	})

	acct, err := c.SignInWithPassword(context.Background(), "asha@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", acct.LocalID)
	assert.Equal(t, "tok", acct.IDToken)
}

func TestErrorCodesGetFriendlyMessages(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "EMAIL_EXISTS"},
		})
	})

	_, err := c.SignUp(context.Background(), "asha@example.com", "pw")
	fbErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "EMAIL_EXISTS", fbErr.Code)
	assert.Equal(t, "This email is already registered. Please log in or use a different email address.", fbErr.Message)
}

func TestFriendlyMessageStripsDetail(t *testing.T) {
	assert.Equal(t,
		"The password is too weak. Please use a stronger password with at least 6 characters.",
		FriendlyMessage("WEAK_PASSWORD : Password should be at least 6 characters"))
	assert.Equal(t,
		"Authentication failed. Please check your information and try again.",
		FriendlyMessage("SOMETHING_NEW"))
}

func TestLookupNoUsers(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"users": []interface{}{}})
	})

	_, err := c.Lookup(context.Background(), "tok")
	fbErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "USER_NOT_FOUND", fbErr.Code)
}

func TestTransportErrorsAreDistinct(t *testing.T) {
	c := NewClient("test-key", "http://127.0.0.1:1/v1/accounts")
	_, err := c.SignInWithPassword(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	_, isFirebase := AsError(err)
	assert.False(t, isFirebase)
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestDisabledWithoutKey(t *testing.T) {
	assert.False(t, NewClient("", "").Enabled())
	assert.True(t, NewClient("key", "").Enabled())
}
