package authclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu      sync.Mutex
	cleared bool
}

func (f *fakePurger) Clear(context.Context) error {
	f.mu.Lock()
	f.cleared = true
	f.mu.Unlock()
	return nil
}

func (f *fakePurger) wasCleared() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

func TestDetectTrigger(t *testing.T) {
	storage := NewMemoryStore()
	assert.Equal(t, TriggerNone, DetectTrigger(storage, "https://app.example.com/dashboard"))

	assert.Equal(t, TriggerURL, DetectTrigger(storage, "https://app.example.com/dashboard?logout=1"))
	assert.Equal(t, TriggerURL, DetectTrigger(storage, "/dashboard?logout="))

	for _, flag := range []string{"force_logout", "logged_out", "emergency_logout"} {
		s := NewMemoryStore()
		require.NoError(t, s.Set(flag, "1"))
		assert.Equal(t, TriggerFlag, DetectTrigger(s, "/dashboard"), flag)
	}
}

func TestSweepClearsEverything(t *testing.T) {
	api := NewAPI("http://academy.test")
	base, err := url.Parse(api.BaseURL())
	require.NoError(t, err)
	api.Jar().SetCookies(base, []*http.Cookie{
		{Name: "refresh_token", Value: "abc", Path: "/"},
		{Name: "session_hint", Value: "1", Path: "/"},
	})
	require.NotEmpty(t, api.Jar().Cookies(base))

	storage := NewMemoryStore()
	require.NoError(t, storage.Set(StorageKey, `{"id":"USR00AAAAA"}`))
	require.NoError(t, storage.Set("force_logout", "1"))

	session := NewSessionStore(storage, nil)
	session.SetUser(testUser())

	purger := &fakePurger{}
	sweeper := NewSweeper(api, session, storage, purger)

	var notified []string
	sweeper.Notify = func(msg string) { notified = append(notified, msg) }

	redirect := sweeper.Run(context.Background(), TriggerFlag, "https://academy.test/dashboard")

	assert.True(t, strings.HasPrefix(redirect, "/auth?t="), redirect)
	assert.Equal(t, 0, storage.Len())
	assert.Nil(t, session.Snapshot().User)
	assert.Empty(t, api.Jar().Cookies(base), "cookies must be expired out of the jar")
	assert.True(t, purger.wasCleared())
	assert.Len(t, notified, 1)
}

func TestSweepURLTriggerSkipsNotice(t *testing.T) {
	sweeper := NewSweeper(NewAPI("http://academy.test"), NewSessionStore(NewMemoryStore(), nil), NewMemoryStore(), nil)
	called := false
	sweeper.Notify = func(string) { called = true }

	redirect := sweeper.Run(context.Background(), TriggerURL, "https://academy.test/dashboard?logout=1")

	assert.True(t, strings.HasPrefix(redirect, "/auth?t="))
	assert.False(t, called, "URL-triggered sweeps are silent")
}

func TestSweepAlreadyOnAuthPage(t *testing.T) {
	sweeper := NewSweeper(nil, NewSessionStore(NewMemoryStore(), nil), NewMemoryStore(), nil)
	assert.Equal(t, "", sweeper.Run(context.Background(), TriggerManual, "https://academy.test/auth"))
	assert.Equal(t, "", sweeper.Run(context.Background(), TriggerManual, "https://academy.test/auth/reset"))
}

func TestParentDomain(t *testing.T) {
	assert.Equal(t, "example.com", parentDomain("app.example.com"))
	assert.Equal(t, "example.com", parentDomain("a.b.example.com"))
	assert.Equal(t, "example.com", parentDomain("example.com"))
	assert.Equal(t, "localhost", parentDomain("localhost"))
}
