package auth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// minPasswordLength is the registration floor; reset and change apply no
// strength check, mirroring the storefront contract.
const minPasswordLength = 8

// Workflows composes the credential store, the password hasher, and the
// token service into the six storefront auth operations. Each method
// returns typed errors from the package taxonomy; formatting the
// {success,message} envelope is the HTTP boundary's job.
type Workflows struct {
	store  CredentialStore
	tokens TokenIssuer
	hasher PasswordAuthenticator
	cfg    Config
	logger Logger
}

// NewWorkflows wires the auth workflows. Config supplies the admin
// credential pair; the store and issuer arrive pre-built.
func NewWorkflows(store CredentialStore, tokens TokenIssuer, cfg Config) *Workflows {
	return &Workflows{
		store:  store,
		tokens: tokens,
		hasher: NewPasswordAuthenticator(),
		cfg:    cfg,
		logger: defLogger{},
	}
}

func (w *Workflows) WithLogger(logger Logger) *Workflows {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// WithPasswordAuthenticator overrides the bcrypt default, mostly for tests
// that want a cheap hasher.
func (w *Workflows) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Workflows {
	if hasher != nil {
		w.hasher = hasher
	}
	return w
}

// Register creates a user record and returns a session token for it.
//
// The existence check and the insert are not atomic; two concurrent
// registrations for the same email race at the store. The unique email
// column turns the loser into a conflict error where the store enforces
// DDL constraints.
func (w *Workflows) Register(ctx context.Context, name, email, password string) (string, error) {
	if _, err := w.store.GetByEmail(ctx, email); err == nil {
		return "", ErrUserExists
	} else if !goerrors.IsNotFound(err) {
		w.logger.Error("register lookup failed", "error", err)
		return "", WrapStoreError(err)
	}

	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return "", ErrInvalidEmail
	}

	if err := validation.Validate(password, validation.Required, validation.RuneLength(minPasswordLength, 0)); err != nil {
		return "", ErrWeakPassword
	}

	hash, err := w.hasher.HashPassword(password)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user, err := w.store.Create(ctx, &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		w.logger.Error("register create failed", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	return w.tokens.Issue(user.ID.String())
}

// Login verifies the password for an existing account and returns a token
// bound to the user id. There is no lockout or throttling on repeated
// failures.
func (w *Workflows) Login(ctx context.Context, email, password string) (string, error) {
	user, err := w.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", ErrUserDoesNotExist
		}
		w.logger.Error("login lookup failed", "error", err)
		return "", WrapStoreError(err)
	}

	if err := w.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	return w.tokens.Issue(user.ID.String())
}

// AdminLogin compares the submitted pair literally against the configured
// constants. On a match the token subject is the email+password
// concatenation rather than an identity claim; admin clients depend on that
// payload shape, so it must not be unified with the user path.
func (w *Workflows) AdminLogin(_ context.Context, email, password string) (string, error) {
	if email != w.cfg.GetAdminEmail() || password != w.cfg.GetAdminPassword() {
		return "", ErrInvalidAdminCredentials
	}

	return w.tokens.Issue(email + password)
}

// Profile returns the sanitized record for an already-authenticated user id.
// The password hash never leaves the store layer here.
func (w *Workflows) Profile(ctx context.Context, userID string) (Profile, error) {
	user, err := w.store.GetByUserID(ctx, userID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return Profile{}, ErrUserNotFound
		}
		w.logger.Error("profile lookup failed", "error", err)
		return Profile{}, WrapStoreError(err)
	}

	return user.ToProfile(), nil
}
