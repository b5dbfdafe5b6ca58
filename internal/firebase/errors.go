package firebase

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a Firebase Identity Toolkit error. Code is Firebase's own
// SCREAMING_SNAKE code (EMAIL_EXISTS, INVALID_PASSWORD, ...).
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("firebase: %s: %s", e.Code, e.Message)
}

// TransportError wraps network-level failures (DNS, refused, timeout) so
// callers can tell them apart from Firebase rejecting the request.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("firebase %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsError extracts a *Error if err carries one.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// friendlyMessages maps Identity Toolkit codes to text shown to users.
// Kept in sync with the messages the web app used.
var friendlyMessages = map[string]string{
	"EMAIL_EXISTS":                "This email is already registered. Please log in or use a different email address.",
	"INVALID_EMAIL":               "Please enter a valid email address.",
	"WEAK_PASSWORD":               "The password is too weak. Please use a stronger password with at least 6 characters.",
	"OPERATION_NOT_ALLOWED":       "Email/password accounts are not enabled. Please contact support.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many failed attempts. Please try again later or reset your password.",
	"EMAIL_NOT_FOUND":             "No account found with this email. Please check your email or register.",
	"INVALID_PASSWORD":            "Incorrect password. Please try again or reset your password.",
	"INVALID_LOGIN_CREDENTIALS":   "Incorrect email or password. Please try again.",
	"USER_DISABLED":               "This account has been disabled. Please contact support.",
	"EXPIRED_OOB_CODE":            "The verification link is invalid or expired. Please request a new one.",
	"INVALID_OOB_CODE":            "The verification link is invalid or expired. Please request a new one.",
	"INVALID_ID_TOKEN":            "Your session has expired. Please sign in again.",
	"USER_NOT_FOUND":              "No account found with this email. Please check your email or register.",
}

// FriendlyMessage converts a Firebase error code to user-readable text.
func FriendlyMessage(code string) string {
	// Some codes arrive with a trailing detail, e.g. "WEAK_PASSWORD : ...".
	head := strings.SplitN(code, " ", 2)[0]
	if msg, ok := friendlyMessages[head]; ok {
		return msg
	}
	return "Authentication failed. Please check your information and try again."
}
