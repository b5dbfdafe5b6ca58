// Package authclient is the Go client for the academy API. It signs users
// in against the first-party backend with a Firebase fallback chain, keeps a
// reactive session snapshot, and runs the logout sweep that clears every
// trace of a session.
package authclient

import "fmt"

// User is the client-side view of an account as returned by the API.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"full_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	Status        string `json:"status,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	ProfileImage  string `json:"profile_image,omitempty"`
	AcademyID     *uint  `json:"academy_id,omitempty"`
}

// LoginData carries the credentials a login form collects. Username and
// Email are interchangeable identifiers; at least one must be set.
type LoginData struct {
	Username string
	Email    string
	Password string
}

// Identifier returns whichever identifier the caller supplied, email first.
func (d LoginData) Identifier() string {
	if d.Email != "" {
		return d.Email
	}
	return d.Username
}

type RegisterData struct {
	Username  string
	Email     string
	Password  string
	FullName  string
	Phone     string
	Role      string
	AcademyID *uint
}

// Result is what every auth operation resolves to. Err is nil on success;
// Message is always set and safe to show the user.
type Result struct {
	User    *User
	Message string
}

// Error codes. The prefix tells the caller which stage failed.
const (
	CodeValidationIdentifier = "validation/identifier-required"
	CodeValidationEmail      = "validation/email-required"
	CodeValidationPassword   = "validation/password-required"

	CodeAuthInvalidCredentials = "auth/invalid-credentials"
	CodeAuthUnrecognized       = "auth/unrecognized-response"
	CodeAuthRejected           = "auth/rejected"

	CodeNetwork = "network/request-failed"

	CodeLinkFirebase = "link-firebase/failed"

	CodeSpecialReset = "special/reset-failed"
)

// Error is the error type every authclient operation returns. Code is a
// stable machine string; Message is presentable.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// httpCode builds the code for a non-2xx API status, e.g. "http/401".
func httpCode(status int) string {
	return fmt.Sprintf("http/%d", status)
}
