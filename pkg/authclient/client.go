package authclient

import (
	"context"

	"github.com/pitchside/academy-api/internal/firebase"
)

// Config wires a Client. BackendURL is required; everything else has a
// working default.
type Config struct {
	BackendURL      string
	FirebaseAPIKey  string
	FirebaseBaseURL string

	// Storage persists the session between runs. Defaults to in-memory.
	Storage Storage
	// Cache, when set, is purged by the logout sweep.
	Cache Purger
}

// Client bundles the transport, the auth orchestrator, the session store,
// and the logout sweeper behind one handle.
type Client struct {
	API     *API
	Orch    *Orchestrator
	Session *SessionStore
	Sweeper *Sweeper

	storage Storage
}

func New(cfg Config) *Client {
	if cfg.Storage == nil {
		cfg.Storage = NewMemoryStore()
	}
	api := NewAPI(cfg.BackendURL)
	fb := firebase.NewClient(cfg.FirebaseAPIKey, cfg.FirebaseBaseURL)
	session := NewSessionStore(cfg.Storage, api.CurrentUser)
	return &Client{
		API:     api,
		Orch:    NewOrchestrator(api, fb),
		Session: session,
		Sweeper: NewSweeper(api, session, cfg.Storage, cfg.Cache),
		storage: cfg.Storage,
	}
}

// Init brings the session up. A pending logout trigger (flag or ?logout=
// on currentURL) runs the sweep instead and returns its redirect.
func (c *Client) Init(ctx context.Context, currentURL string) (redirect string) {
	if trigger := DetectTrigger(c.storage, currentURL); trigger != TriggerNone {
		return c.Sweeper.Run(ctx, trigger, currentURL)
	}
	c.Session.InitOnce(ctx)
	return ""
}

// Login runs the sign-in chain and records the user on success.
func (c *Client) Login(ctx context.Context, data LoginData) (*Result, error) {
	res, err := c.Orch.Login(ctx, data)
	if err != nil {
		return nil, err
	}
	if res.User != nil {
		c.Session.SetUser(res.User)
	}
	return res, nil
}

// Register runs the registration chain and records the user on success.
func (c *Client) Register(ctx context.Context, data RegisterData) (*Result, error) {
	res, err := c.Orch.Register(ctx, data)
	if err != nil {
		return nil, err
	}
	if res.User != nil {
		c.Session.SetUser(res.User)
	}
	return res, nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) (string, error) {
	return c.Orch.ResetPassword(ctx, email)
}

// Logout runs the full sweep and returns the redirect target.
func (c *Client) Logout(ctx context.Context, currentURL string) string {
	return c.Sweeper.Run(ctx, TriggerManual, currentURL)
}
