package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to structured errors. HTTP layers key off these
// instead of matching message strings.
const (
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeEmailTaken       = "EMAIL_TAKEN"
	TextCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	TextCodeInvalidCode      = "INVALID_CODE"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
)

// ErrInvalidCredentials covers unknown emails and rejected email/password
// pairs. The two cases are deliberately indistinguishable so callers can
// not probe which part was wrong.
var ErrInvalidCredentials = goerrors.New("user email or password incorrect", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrEmailAlreadyRegistered is returned when sign up targets an email
// that already has an account.
var ErrEmailAlreadyRegistered = goerrors.New("email address already in use", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrEmailNotVerified blocks sign in until the verification code has been
// confirmed.
var ErrEmailNotVerified = goerrors.New("your email is not verified yet", goerrors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified)

// ErrInvalidCode is returned when a submitted verification or reset code
// does not match the stored one, including when none was issued.
var ErrInvalidCode = goerrors.New("provided code is wrong", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidCode)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is the bcrypt-level mismatch error. The
// credential verifier collapses it into ErrInvalidCredentials before it
// reaches callers.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}

	return rich.TextCode == code
}

// IsInvalidCredentials reports whether err carries the invalid
// credentials code.
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCreds)
}

// IsEmailTaken reports whether err is the duplicate email error.
func IsEmailTaken(err error) bool {
	return hasTextCode(err, TextCodeEmailTaken)
}

// IsEmailNotVerified reports whether err is the unverified email error.
func IsEmailNotVerified(err error) bool {
	return hasTextCode(err, TextCodeEmailNotVerified)
}

// IsInvalidCode reports whether err is a code mismatch.
func IsInvalidCode(err error) bool {
	return hasTextCode(err, TextCodeInvalidCode)
}

// isUniqueViolation matches driver-level duplicate key errors, which
// surface when two sign-ups race the same email past the existence
// check.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
