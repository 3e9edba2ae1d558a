package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// ResetPassword overwrites the stored hash for the account behind email.
//
// There is no possession proof here: no emailed token, no old-password
// check. Anyone who knows an account email can replace its password. This
// matches the storefront contract and is flagged as a hardening candidate
// in the package doc; do not "fix" it without versioning the API.
func (w *Workflows) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := w.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		w.logger.Error("reset password lookup failed", "error", err)
		return WrapStoreError(err)
	}

	hash, err := w.hasher.HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := w.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		w.logger.Error("reset password update failed", "error", err)
		return WrapStoreError(err)
	}

	return nil
}

// ChangePassword rotates the hash for an authenticated user after verifying
// the old password against the stored hash.
func (w *Workflows) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := w.store.GetByUserID(ctx, userID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		w.logger.Error("change password lookup failed", "error", err)
		return WrapStoreError(err)
	}

	if err := w.hasher.ComparePasswordAndHash(oldPassword, user.PasswordHash); err != nil {
		return ErrOldPasswordMismatch
	}

	hash, err := w.hasher.HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := w.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		w.logger.Error("change password update failed", "error", err)
		return WrapStoreError(err)
	}

	return nil
}
