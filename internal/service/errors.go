package service

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrUserNotFound         = errors.New("user_not_found")
	ErrUserDisabled         = errors.New("user_disabled")
	ErrEmailInUse           = errors.New("email_already_in_use")
	ErrWeakPassword         = errors.New("weak_password")
	ErrTooManyRequests      = errors.New("too_many_requests")
	ErrSessionExpired       = errors.New("session_expired")
	ErrSessionNotFound      = errors.New("session_not_found")
	ErrResetTokenInvalid    = errors.New("reset_token_invalid")
	ErrProfileNotFound      = errors.New("profile_not_found")
	ErrInvalidProvider      = errors.New("provider_not_supported")
	ErrInvalidRole          = errors.New("invalid_message_role")
	ErrConversationNotFound = errors.New("Session not found")
)

// AuthErrorMessage maps provider-style error codes to the strings the
// dashboard renders. Unknown codes fall through to a generic message.
func AuthErrorMessage(code string) string {
	switch code {
	case "user-not-found":
		return "No account found with this email address."
	case "wrong-password":
		return "Incorrect password."
	case "email-already-in-use":
		return "An account with this email already exists."
	case "weak-password":
		return "Password should be at least 6 characters."
	case "invalid-email":
		return "Invalid email address."
	case "too-many-requests":
		return "Too many failed attempts. Please try again later."
	case "user-disabled":
		return "This account has been disabled. Please contact support."
	case "operation-not-allowed":
		return "Email/password authentication is not enabled."
	case "invalid-credential":
		return "Invalid email or password."
	case "network-request-failed":
		return "Network error. Please check your connection and try again."
	case "requires-recent-login":
		return "Please sign in again to complete this action."
	case "missing-email":
		return "Email address is required."
	case "missing-password":
		return "Password is required."
	default:
		return "Authentication failed. Please try again."
	}
}

// AuthErrorCode translates service sentinels to the code table above.
func AuthErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "user-not-found"
	case errors.Is(err, ErrInvalidCredentials):
		return "wrong-password"
	case errors.Is(err, ErrEmailInUse):
		return "email-already-in-use"
	case errors.Is(err, ErrWeakPassword):
		return "weak-password"
	case errors.Is(err, ErrTooManyRequests):
		return "too-many-requests"
	case errors.Is(err, ErrUserDisabled):
		return "user-disabled"
	default:
		return "unknown"
	}
}
