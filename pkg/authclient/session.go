package authclient

import (
	"context"
	"encoding/json"
	"sync"
)

// StorageKey is where the current user is persisted between runs.
const StorageKey = "auth:user"

// Snapshot is the immutable view of the session handed to subscribers.
// Ready flips to true exactly once, after initialization finishes, whether
// or not a user was found. Role is empty iff User is nil.
type Snapshot struct {
	Ready bool
	User  *User
	Role  string
}

// Provider fetches the current user from the backend during initialization.
type Provider func(ctx context.Context) (*User, error)

type subscriber struct {
	id int
	fn func(Snapshot)
}

// SessionStore holds the session state and notifies subscribers on every
// change, in subscription order.
type SessionStore struct {
	mu      sync.RWMutex
	ready   bool
	user    *User
	subs    []subscriber
	nextSub int

	storage  Storage
	provider Provider

	bootMu   sync.Mutex
	booted   bool
	inflight chan struct{}
}

func NewSessionStore(storage Storage, provider Provider) *SessionStore {
	return &SessionStore{storage: storage, provider: provider}
}

// Snapshot returns a defensive copy of the current state.
func (s *SessionStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() Snapshot {
	snap := Snapshot{Ready: s.ready}
	if s.user != nil {
		u := *s.user
		snap.User = &u
		snap.Role = u.Role
	}
	return snap
}

// Subscribe registers fn for every state change and returns an unsubscribe
// function. Subscribers fire in the order they subscribed.
func (s *SessionStore) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *SessionStore) notify() {
	s.mu.RLock()
	snap := s.snapshotLocked()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.fn(snap)
	}
}

// SetUser replaces the current user, persists it, and notifies subscribers.
// Passing nil clears both the state and the persisted entry.
func (s *SessionStore) SetUser(u *User) {
	s.mu.Lock()
	if u == nil {
		s.user = nil
	} else {
		cp := *u
		s.user = &cp
	}
	s.mu.Unlock()

	if s.storage != nil {
		if u == nil {
			s.storage.Delete(StorageKey)
		} else if raw, err := json.Marshal(u); err == nil {
			_ = s.storage.Set(StorageKey, string(raw))
		}
	}
	s.notify()
}

func (s *SessionStore) SetReady(ready bool) {
	s.mu.Lock()
	changed := s.ready != ready
	s.ready = ready
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *SessionStore) CurrentUser() *User {
	return s.Snapshot().User
}

// InitOnce initializes the session exactly once; concurrent callers share
// the same in-flight initialization. The provider result wins; if it fails,
// the persisted user is restored. Ready becomes true either way.
func (s *SessionStore) InitOnce(ctx context.Context) {
	s.bootMu.Lock()
	if s.booted {
		s.bootMu.Unlock()
		return
	}
	if s.inflight != nil {
		ch := s.inflight
		s.bootMu.Unlock()
		<-ch
		return
	}
	ch := make(chan struct{})
	s.inflight = ch
	s.bootMu.Unlock()

	s.initialize(ctx)

	s.bootMu.Lock()
	s.booted = true
	s.inflight = nil
	s.bootMu.Unlock()
	close(ch)
}

func (s *SessionStore) initialize(ctx context.Context) {
	defer s.SetReady(true)

	if s.provider != nil {
		if u, err := s.provider(ctx); err == nil && u != nil {
			s.SetUser(u)
			return
		}
	}
	if s.storage == nil {
		return
	}
	raw, ok := s.storage.Get(StorageKey)
	if !ok {
		return
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" && u.Email == "" {
		// A record we cannot read is worse than none.
		s.storage.Delete(StorageKey)
		return
	}
	s.SetUser(&u)
}

// SignOut drops the user but keeps ready true.
func (s *SessionStore) SignOut() {
	s.SetUser(nil)
}

// ResetForTest returns the store to its pre-init state.
func (s *SessionStore) ResetForTest() {
	s.bootMu.Lock()
	s.booted = false
	s.inflight = nil
	s.bootMu.Unlock()

	s.mu.Lock()
	s.ready = false
	s.user = nil
	s.mu.Unlock()
}
