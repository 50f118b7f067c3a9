package auth

import (
	"time"

	"github.com/FACorreiaa/studyhub/internal/security/token"
	"github.com/FACorreiaa/studyhub/internal/validation"
)

// TokenIssuer signs claims into a bearer token.
type TokenIssuer interface {
	Issue(claims token.Claims, ttl time.Duration) (string, error)
}

// TokenVerifier checks a bearer token. Every failure is reported as ok == false.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, bool)
}

// Client-facing messages.
const (
	MsgSignupMissingFields = "userId, password and username are all required"
	MsgInvalidIdentifier   = "userId must be 4-20 characters of lowercase letters, digits or underscore (_)"
	MsgWeakPassword        = "password must be at least 8 characters and include an uppercase letter, a lowercase letter and a digit"
	MsgInvalidUsername     = "username must be between 2 and 20 characters"
	MsgUserIDTaken         = "userId is already in use"
	MsgSignupSucceeded     = "Signup completed"
	MsgSignupFailed        = "An error occurred while processing signup"

	MsgLoginMissingFields = "userId and password are required"
	MsgInvalidCredentials = "invalid userId or password"
	MsgLoginSucceeded     = "Login successful"
	MsgLoginFailed        = "An error occurred while processing login"

	MsgTokenRequired    = "authentication token required"
	MsgInvalidToken     = "invalid or expired token"
	MsgUserNotFound     = "user not found"
	MsgGetUserFailed    = "An error occurred while fetching user information"
	MsgLoggedOut        = "Logged out successfully"
	MsgInvalidBody      = "invalid request body"
	MsgMissingAuthClaim = "authentication required"
)

var signupRuleMessages = map[validation.Rule]string{
	validation.RuleRequired:       MsgSignupMissingFields,
	validation.RuleIdentifier:     MsgInvalidIdentifier,
	validation.RuleStrongPassword: MsgWeakPassword,
	validation.RuleDisplayName:    MsgInvalidUsername,
}

var loginRuleMessages = map[validation.Rule]string{
	validation.RuleRequired: MsgLoginMissingFields,
}
