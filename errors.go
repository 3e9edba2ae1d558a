package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeUserExists         = "USER_ALREADY_EXISTS"
	textCodeUserNotFound       = "USER_NOT_FOUND"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeInvalidEmail       = "INVALID_EMAIL"
	textCodeWeakPassword       = "WEAK_PASSWORD"
	textCodeStoreUnavailable   = "STORE_UNAVAILABLE"
)

// ErrUserExists is returned when registration hits an email that is taken.
var ErrUserExists = goerrors.New("User already exists", goerrors.CategoryConflict).
	WithTextCode(textCodeUserExists).
	WithCode(goerrors.CodeConflict)

// ErrUserNotFound is returned when a lookup by email or id misses in the
// profile, reset, and change flows.
var ErrUserNotFound = goerrors.New("User not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrUserDoesNotExist is the login variant of an unknown email. The message
// string, grammar included, is part of the wire contract.
var ErrUserDoesNotExist = goerrors.New("User doesn't exists", goerrors.CategoryNotFound).
	WithTextCode(textCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidCredentials is a failed password compare on user login.
var ErrInvalidCredentials = goerrors.New("Invalid Credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidAdminCredentials is a failed admin constant compare. Same
// outcome as ErrInvalidCredentials but the admin surface spells the
// message with a lowercase c.
var ErrInvalidAdminCredentials = goerrors.New("Invalid credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidEmail is returned when the registration email fails shape checks.
var ErrInvalidEmail = goerrors.New("Please enter a valid email", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidEmail).
	WithCode(goerrors.CodeBadRequest)

// ErrWeakPassword is returned when a new password is shorter than 8 characters.
var ErrWeakPassword = goerrors.New("Please enter a strong password", goerrors.CategoryValidation).
	WithTextCode(textCodeWeakPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrOldPasswordMismatch is the change-password variant of a failed
// compare; the distinct message is part of the wire contract.
var ErrOldPasswordMismatch = goerrors.New("Old password is incorrect", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty input to the password hasher
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrMismatchedHashAndPassword is the single fail-closed result of any
// password verification failure, malformed stored hashes included.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrUnableToDecodeToken signals a token the validator could not parse.
var ErrUnableToDecodeToken = goerrors.New("Not Authorized Login Again", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// WrapStoreError converts unexpected persistence failures into the
// StoreUnavailable bucket while keeping repository not-found semantics.
func WrapStoreError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	if goerrors.IsNotFound(err) {
		return ErrUserNotFound
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store unavailable").
		WithTextCode(textCodeStoreUnavailable).
		WithCode(goerrors.CodeInternal)
}

// IsNotFound reports whether err is the user-not-found failure.
func IsNotFound(err error) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryNotFound
	}
	return goerrors.IsNotFound(err)
}
