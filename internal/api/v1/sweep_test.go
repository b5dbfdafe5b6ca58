package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOnLogoutParamIntercepts(t *testing.T) {
	h := &Handler{}
	nextCalled := false
	handler := h.SweepOnLogoutParam(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/players?logout=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, nextCalled, "the sweep must run instead of the route")
	assert.Equal(t, http.StatusOK, rec.Code)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	data := env["data"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(data["redirect"].(string), "/auth?t="))

	// Cookie must be expired for every scope variant.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	for _, c := range cookies {
		assert.Equal(t, refreshCookieName, c.Name)
		assert.True(t, c.MaxAge < 0 || c.Expires.Unix() <= 0)
	}
}

func TestSweepOnLogoutParamPassesThrough(t *testing.T) {
	h := &Handler{}
	nextCalled := false
	handler := h.SweepOnLogoutParam(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, nextCalled)
}

func TestExpireRefreshCookieScopes(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Host = "app.academy.example.com"

	expireRefreshCookie(rec, req)

	cookies := rec.Result().Cookies()
	domains := map[string]bool{}
	for _, c := range cookies {
		domains[c.Domain] = true
	}
	assert.True(t, domains[""], "bare scope")
	assert.True(t, domains["app.academy.example.com"], "host scope")
	assert.True(t, domains["example.com"], "parent domain scope")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "pitchside-cricket-academy", slugify("Pitchside Cricket Academy"))
	assert.Equal(t, "a-b", slugify("  A  &  B  "))
	assert.Equal(t, "abc123", slugify("ABC123"))
}
