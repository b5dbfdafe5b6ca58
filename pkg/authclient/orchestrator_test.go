package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pitchside/academy-api/internal/firebase"
	"github.com/pitchside/academy-api/internal/specialcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	})
}

// counter tracks how many times each path was hit.
type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCounter() *counter { return &counter{calls: map[string]int{}} }

func (c *counter) hit(path string) {
	c.mu.Lock()
	c.calls[path]++
	c.mu.Unlock()
}

func (c *counter) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[path]
}

func (c *counter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

// fakeFirebase stands in for the Identity Toolkit. ops maps an operation
// suffix like ":signInWithPassword" to its handler.
func fakeFirebase(t *testing.T, hits *counter, ops map[string]http.HandlerFunc) *firebase.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.hit(r.URL.Path)
		for suffix, h := range ops {
			if strings.HasSuffix(r.URL.Path, suffix) {
				h(w, r)
				return
			}
		}
		t.Errorf("unexpected firebase call: %s", r.URL.Path)
		http.Error(w, "unexpected", http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)
	return firebase.NewClient("test-key", srv.URL+"/v1/accounts")
}

func firebaseError(code string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": code},
		})
	}
}

func envelopeUser() map[string]interface{} {
	return map[string]interface{}{
		"id": "USR00AAAAA", "username": "asha", "email": "asha@example.com", "role": "parent",
	}
}

func TestLoginSpecialEmailNeverTouchesFirebase(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, nil)

	var mu sync.Mutex
	currentPassword := "SomethingElse9!"
	beHits := newCounter()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beHits.hit(r.URL.Path)
		switch r.URL.Path {
		case "/api/login":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			ok := req["password"] == currentPassword
			mu.Unlock()
			if !ok {
				writeEnvelope(w, http.StatusUnauthorized, false, "Invalid credentials. Please check your username and password.", nil)
				return
			}
			writeEnvelope(w, http.StatusOK, true, "Signed in.", envelopeUser())
		case "/api/auth/reset-special-password":
			mu.Lock()
			currentPassword = specialcase.SubstitutePassword
			mu.Unlock()
			writeEnvelope(w, http.StatusOK, true, "Password has been reset for this account.", nil)
		default:
			t.Errorf("unexpected backend call: %s", r.URL.Path)
		}
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Login(context.Background(), LoginData{
		Email:    "haumankind@chapsmail.com",
		Password: "forgotten-password",
	})

	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, 0, fbHits.total(), "special accounts must never reach firebase")
	assert.Equal(t, 2, beHits.count("/api/login"), "original attempt plus retry")
	assert.Equal(t, 1, beHits.count("/api/auth/reset-special-password"))
}

func TestLoginSpecialUsernameResetsAndRetries(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, nil)

	var mu sync.Mutex
	currentPassword := "SomethingElse9!"
	beHits := newCounter()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beHits.hit(r.URL.Path)
		switch r.URL.Path {
		case "/api/login":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			ok := req["password"] == currentPassword
			mu.Unlock()
			if !ok {
				writeEnvelope(w, http.StatusUnauthorized, false, "Invalid credentials. Please check your username and password.", nil)
				return
			}
			writeEnvelope(w, http.StatusOK, true, "Signed in.", envelopeUser())
		case "/api/auth/reset-special-password":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			// The bare username must resolve to the pinned address.
			require.Equal(t, "haumankind@chapsmail.com", req["email"])
			mu.Lock()
			currentPassword = specialcase.SubstitutePassword
			mu.Unlock()
			writeEnvelope(w, http.StatusOK, true, "Password has been reset for this account.", nil)
		default:
			t.Errorf("unexpected backend call: %s", r.URL.Path)
		}
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Login(context.Background(), LoginData{
		Username: "haumankind",
		Password: "wrong",
	})

	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, 0, fbHits.total(), "special accounts must never reach firebase")
	assert.Equal(t, 2, beHits.count("/api/login"))
	assert.Equal(t, 1, beHits.count("/api/auth/reset-special-password"))
}

func TestLoginSpecialDomainRoutedToBackend(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, nil)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "Signed in.", envelopeUser())
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Login(context.Background(), LoginData{Email: "anyone@clowmail.com", Password: "pw"})

	require.NoError(t, err)
	assert.NotNil(t, res.User)
	assert.Equal(t, 0, fbHits.total())
}

func TestLoginFirebaseFailureSurfacesBackendMessage(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, map[string]http.HandlerFunc{
		":signInWithPassword": firebaseError("INVALID_PASSWORD"),
	})

	beHits := newCounter()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beHits.hit(r.URL.Path)
		require.Equal(t, "/api/login", r.URL.Path)
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid credentials. Please check your username and password.", nil)
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	_, err := o.Login(context.Background(), LoginData{Email: "user@example.com", Password: "wrong"})

	require.Error(t, err)
	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "http/401", authErr.Code)
	assert.Equal(t, "Invalid credentials. Please check your username and password.", authErr.Message)
	assert.Equal(t, 1, beHits.count("/api/login"))
}

func TestLoginFirebaseHappyPath(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, map[string]http.HandlerFunc{
		":signInWithPassword": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"localId": "fb-uid-1", "email": "asha@example.com", "idToken": "tok123",
			})
		},
	})

	beHits := newCounter()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beHits.hit(r.URL.Path)
		require.Equal(t, "/api/auth/login-firebase", r.URL.Path)
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		require.Equal(t, "tok123", req["idToken"])
		writeEnvelope(w, http.StatusOK, true, "Signed in.", envelopeUser())
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Login(context.Background(), LoginData{Email: "asha@example.com", Password: "pw"})

	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "USR00AAAAA", res.User.ID)
	assert.Equal(t, 0, beHits.count("/api/login"), "no fallback on the happy path")
}

func TestLoginLinkFailureFallsThroughToBackend(t *testing.T) {
	fb := fakeFirebase(t, newCounter(), map[string]http.HandlerFunc{
		":signInWithPassword": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"localId": "fb-uid-1", "idToken": "tok123"})
		},
	})

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login-firebase":
			writeEnvelope(w, http.StatusInternalServerError, false, "could not link account", nil)
		case "/api/login":
			writeEnvelope(w, http.StatusOK, true, "Signed in.", envelopeUser())
		default:
			t.Errorf("unexpected backend call: %s", r.URL.Path)
		}
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Login(context.Background(), LoginData{Email: "asha@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.NotNil(t, res.User)
}

func TestLoginUsernameSkipsFirebase(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, nil)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "Signed in.", envelopeUser())
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	_, err := o.Login(context.Background(), LoginData{Username: "coachraj", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, 0, fbHits.total())
}

func TestLoginValidation(t *testing.T) {
	o := NewOrchestrator(NewAPI("http://127.0.0.1:1"), nil)

	_, err := o.Login(context.Background(), LoginData{Password: "pw"})
	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, CodeValidationIdentifier, authErr.Code)

	_, err = o.Login(context.Background(), LoginData{Email: "a@b.com"})
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, CodeValidationPassword, authErr.Code)
}

func TestRegisterLinkFailureIsHard(t *testing.T) {
	fb := fakeFirebase(t, newCounter(), map[string]http.HandlerFunc{
		":signUp": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"localId": "fb-uid-2", "idToken": "tok456"})
		},
		":update": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"idToken": "tok456"})
		},
	})

	beHits := newCounter()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beHits.hit(r.URL.Path)
		require.Equal(t, "/api/auth/register-firebase", r.URL.Path)
		writeEnvelope(w, http.StatusInternalServerError, false, "database unavailable", nil)
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	_, err := o.Register(context.Background(), RegisterData{
		Username: "asha", Email: "asha@example.com", Password: "pw12345", FullName: "Asha K",
	})

	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, CodeLinkFirebase, authErr.Code)
	assert.Equal(t, 0, beHits.count("/api/register"), "no backend fallback once firebase account exists")
}

func TestRegisterFirebaseDownFallsBack(t *testing.T) {
	fb := fakeFirebase(t, newCounter(), map[string]http.HandlerFunc{
		":signUp": firebaseError("OPERATION_NOT_ALLOWED"),
	})

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "Account created.", envelopeUser())
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Register(context.Background(), RegisterData{
		Username: "asha", Email: "asha@example.com", Password: "pw12345",
	})

	require.NoError(t, err)
	assert.NotNil(t, res.User)
}

func TestRegisterSpecialUsesDirectRegister(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, nil)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/direct-register", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "Account created.", envelopeUser())
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	res, err := o.Register(context.Background(), RegisterData{
		Username: "hau", Email: "haumankind@chapsmail.com", Password: "pw12345",
	})

	require.NoError(t, err)
	assert.NotNil(t, res.User)
	assert.Equal(t, 0, fbHits.total())
}

func TestResetPasswordSpecialGoesToBackend(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, nil)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/reset-special-password", r.URL.Path)
		writeEnvelope(w, http.StatusOK, true, "Password has been reset for this account.", nil)
	}))
	defer backend.Close()

	o := NewOrchestrator(NewAPI(backend.URL), fb)
	msg, err := o.ResetPassword(context.Background(), "haumankind@chapsmail.com")

	require.NoError(t, err)
	assert.Equal(t, "Password has been reset for this account.", msg)
	assert.Equal(t, 0, fbHits.total())
}

func TestResetPasswordUsesFirebase(t *testing.T) {
	fbHits := newCounter()
	fb := fakeFirebase(t, fbHits, map[string]http.HandlerFunc{
		":sendOobCode": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"email": "asha@example.com"})
		},
	})

	o := NewOrchestrator(NewAPI("http://127.0.0.1:1"), fb)
	msg, err := o.ResetPassword(context.Background(), "asha@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	assert.Equal(t, 1, fbHits.total())
}
