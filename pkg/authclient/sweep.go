package authclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Trigger identifies what started a logout sweep. URL triggers come from a
// ?logout= query parameter and skip the sign-out notice.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerManual
	TriggerFlag
	TriggerURL
)

// Storage flags another tab or an emergency path may set to demand a sweep.
var logoutFlags = []string{"force_logout", "logged_out", "emergency_logout"}

// DetectTrigger reports whether a sweep is pending: either a logout flag in
// storage or a ?logout= parameter on the current URL.
func DetectTrigger(storage Storage, rawURL string) Trigger {
	if rawURL != "" {
		if u, err := url.Parse(rawURL); err == nil && u.Query().Has("logout") {
			return TriggerURL
		}
	}
	if storage != nil {
		for _, flag := range logoutFlags {
			if _, ok := storage.Get(flag); ok {
				return TriggerFlag
			}
		}
	}
	return TriggerNone
}

// Purger is the slice of the query cache the sweep needs.
type Purger interface {
	Clear(ctx context.Context) error
}

// Sweeper tears down every trace of a session: the session store, persisted
// state, cookies, the query cache, and the backend session.
type Sweeper struct {
	api     *API
	session *SessionStore
	storage Storage
	cache   Purger

	// Notify shows a sign-out notice. Optional; skipped for URL triggers.
	Notify func(message string)
}

func NewSweeper(api *API, session *SessionStore, storage Storage, cache Purger) *Sweeper {
	return &Sweeper{api: api, session: session, storage: storage, cache: cache}
}

// Run executes the sweep and returns the path to redirect to, or "" when
// the current URL is already the auth page.
func (s *Sweeper) Run(ctx context.Context, trigger Trigger, currentURL string) string {
	if s.session != nil {
		s.session.SignOut()
	}
	if s.storage != nil {
		s.storage.Clear()
	}
	if s.api != nil {
		expireJarCookies(s.api.Jar(), s.api.BaseURL())

		// Best effort; the local teardown already happened.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.api.Logout(ctx)
		}()
	}
	if s.cache != nil {
		_ = s.cache.Clear(ctx)
	}

	if trigger != TriggerURL && s.Notify != nil {
		s.Notify("You have been signed out.")
	}

	if onAuthPage(currentURL) {
		return ""
	}
	return fmt.Sprintf("/auth?t=%d", time.Now().UnixMilli())
}

func onAuthPage(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == "/auth" || strings.HasPrefix(u.Path, "/auth/")
}

// expireJarCookies overwrites every cookie the jar holds for base with an
// expired copy. Each name gets three attempts: bare, host-scoped, and
// parent-domain-scoped, because the original Set-Cookie may have used any
// of them.
func expireJarCookies(jar http.CookieJar, base string) {
	if jar == nil {
		return
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return
	}
	cookies := jar.Cookies(u)
	if len(cookies) == 0 {
		return
	}
	host := u.Hostname()
	expired := make([]*http.Cookie, 0, len(cookies)*3)
	for _, c := range cookies {
		for _, domain := range []string{"", host, parentDomain(host)} {
			expired = append(expired, &http.Cookie{
				Name:    c.Name,
				Value:   "",
				Path:    "/",
				Domain:  domain,
				MaxAge:  -1,
				Expires: time.Unix(0, 0),
			})
		}
	}
	jar.SetCookies(u, expired)
}

// parentDomain returns the registrable parent of a host, e.g.
// "app.example.com" -> "example.com". Hosts without one map to themselves.
func parentDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
