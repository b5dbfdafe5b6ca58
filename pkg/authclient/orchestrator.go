package authclient

import (
	"context"
	"strings"

	"github.com/pitchside/academy-api/internal/firebase"
	"github.com/pitchside/academy-api/internal/specialcase"
)

// Orchestrator runs the sign-in and registration chains across the
// first-party backend and Firebase. Strategies are tried in a fixed order
// and the first one that applies owns the outcome.
type Orchestrator struct {
	api      *API
	firebase *firebase.Client
	policy   *specialcase.Policy

	loginStrategies []loginStrategy
}

type loginStrategy struct {
	name    string
	applies func(LoginData) bool
	run     func(context.Context, LoginData) (*Result, error)
}

func NewOrchestrator(api *API, fb *firebase.Client) *Orchestrator {
	o := &Orchestrator{
		api:      api,
		firebase: fb,
		policy:   specialcase.Default,
	}
	o.loginStrategies = []loginStrategy{
		{
			name: "special",
			applies: func(d LoginData) bool {
				return o.policy.MatchIdentifier(d.Email) || o.policy.MatchIdentifier(d.Username)
			},
			run: o.loginSpecial,
		},
		{
			name:    "username",
			applies: func(d LoginData) bool { return !strings.Contains(d.Identifier(), "@") },
			run:     o.loginBackend,
		},
		{
			name: "firebase",
			applies: func(d LoginData) bool {
				return fb != nil && fb.Enabled() && strings.Contains(d.Identifier(), "@")
			},
			run: o.loginFirebase,
		},
		{
			name:    "backend",
			applies: func(LoginData) bool { return true },
			run:     o.loginBackend,
		},
	}
	return o
}

// SetPolicy overrides the special-case table. Tests use this.
func (o *Orchestrator) SetPolicy(p *specialcase.Policy) { o.policy = p }

/* ------------------ Login ------------------ */

func (o *Orchestrator) Login(ctx context.Context, data LoginData) (*Result, error) {
	if data.Identifier() == "" {
		return nil, newError(CodeValidationIdentifier, "Please enter your username or email.")
	}
	if data.Password == "" {
		return nil, newError(CodeValidationPassword, "Please enter your password.")
	}
	for _, s := range o.loginStrategies {
		if s.applies(data) {
			return s.run(ctx, data)
		}
	}
	return nil, newError(CodeAuthInvalidCredentials, "Invalid credentials. Please check your username and password.")
}

func (o *Orchestrator) loginBackend(ctx context.Context, data LoginData) (*Result, error) {
	user, msg, err := o.api.Login(ctx, data.Identifier(), data.Password)
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = "Signed in."
	}
	return &Result{User: user, Message: msg}, nil
}

// loginSpecial handles accounts pinned to the first-party flow. Firebase is
// never contacted. If the given password fails, the backend resets the
// account to the substitute password and the login is retried with it.
// A bare username resolves to its pinned address for the reset call.
func (o *Orchestrator) loginSpecial(ctx context.Context, data LoginData) (*Result, error) {
	res, firstErr := o.loginBackend(ctx, data)
	if firstErr == nil {
		return res, nil
	}

	resetEmail, ok := o.policy.EmailForIdentifier(data.Identifier())
	if !ok {
		resetEmail = data.Email
	}
	if _, resetErr := o.api.ResetSpecialPassword(ctx, resetEmail); resetErr != nil {
		// Reset failures are swallowed; the original login error stands.
		return nil, firstErr
	}

	retry := data
	retry.Password = specialcase.SubstitutePassword
	res, err := o.loginBackend(ctx, retry)
	if err != nil {
		return nil, newError(CodeSpecialReset, "We could not sign you in. Please contact support.")
	}
	return res, nil
}

// loginFirebase signs in against Firebase and exchanges the ID token with
// the backend. Any failure on either leg falls through to the plain backend
// login, and only the backend's outcome is surfaced.
func (o *Orchestrator) loginFirebase(ctx context.Context, data LoginData) (*Result, error) {
	acct, err := o.firebase.SignInWithPassword(ctx, data.Identifier(), data.Password)
	if err == nil {
		user, msg, linkErr := o.api.LoginFirebase(ctx, acct.IDToken)
		if linkErr == nil {
			if msg == "" {
				msg = "Signed in."
			}
			return &Result{User: user, Message: msg}, nil
		}
	}
	return o.loginBackend(ctx, data)
}

/* ------------------ Register ------------------ */

// Register creates an account. Special-case addresses register directly on
// the backend. Everyone else gets a Firebase account first; if Firebase
// refuses, registration falls back to the backend alone, but once a Firebase
// account exists a failure to link it is a hard error.
func (o *Orchestrator) Register(ctx context.Context, data RegisterData) (*Result, error) {
	if data.Email == "" {
		return nil, newError(CodeValidationEmail, "Please enter your email address.")
	}
	if data.Password == "" {
		return nil, newError(CodeValidationPassword, "Please choose a password.")
	}

	if o.policy.Match(data.Email) {
		user, msg, err := o.api.DirectRegister(ctx, data)
		if err != nil {
			return nil, err
		}
		return &Result{User: user, Message: msg}, nil
	}

	if o.firebase == nil || !o.firebase.Enabled() {
		return o.registerBackend(ctx, data)
	}

	acct, err := o.firebase.SignUp(ctx, data.Email, data.Password)
	if err != nil {
		// Duplicate emails and the rest surface from the backend register.
		return o.registerBackend(ctx, data)
	}

	if data.FullName != "" {
		// Best effort. The backend record carries the authoritative name.
		if updated, upErr := o.firebase.UpdateProfile(ctx, acct.IDToken, data.FullName); upErr == nil && updated.IDToken != "" {
			acct = updated
		}
	}

	user, msg, linkErr := o.api.RegisterFirebase(ctx, acct.IDToken, data)
	if linkErr != nil {
		return nil, newError(CodeLinkFirebase, "Your account was created but could not be linked. Please contact support.")
	}
	if msg == "" {
		msg = "Account created."
	}
	return &Result{User: user, Message: msg}, nil
}

func (o *Orchestrator) registerBackend(ctx context.Context, data RegisterData) (*Result, error) {
	user, msg, err := o.api.Register(ctx, data)
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = "Account created."
	}
	return &Result{User: user, Message: msg}, nil
}

/* ------------------ Password reset ------------------ */

// ResetPassword routes special accounts to the backend reset and everyone
// else to Firebase's reset email, with a backend fallback.
func (o *Orchestrator) ResetPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", newError(CodeValidationEmail, "Please enter your email address.")
	}
	if o.policy.Match(email) {
		msg, err := o.api.ResetSpecialPassword(ctx, email)
		if err != nil {
			return "", newError(CodeSpecialReset, "We could not reset your password. Please contact support.")
		}
		return msg, nil
	}
	if o.firebase != nil && o.firebase.Enabled() {
		if err := o.firebase.SendPasswordReset(ctx, email); err == nil {
			return "Password reset email sent. Check your inbox.", nil
		}
	}
	return o.api.ResetPassword(ctx, email)
}
