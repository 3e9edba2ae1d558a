package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenServiceImpl signs and validates the bearer tokens this module issues.
// Tokens carry only a subject and an issued-at claim. No expiry is set;
// tokens remain valid until the signing key rotates, matching the storefront
// wire contract.
type TokenServiceImpl struct {
	signingKey []byte
	logger     Logger
}

var (
	_ TokenIssuer    = (*TokenServiceImpl)(nil)
	_ TokenValidator = (*TokenServiceImpl)(nil)
)

// NewTokenService creates a token service bound to the configured secret.
func NewTokenService(cfg Config, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		logger:     logger,
	}
}

// Issue signs an HS256 token over the given subject. The subject is a user
// id for normal sessions and the admin email+password concatenation for the
// admin path; the issuer itself is policy free.
func (ts *TokenServiceImpl) Issue(subject string) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Validate parses a raw token and returns its subject. Only HMAC signatures
// are accepted; anything else fails closed.
func (ts *TokenServiceImpl) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		return "", goerrors.Wrap(err, ErrUnableToDecodeToken.Category, ErrUnableToDecodeToken.Message).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return "", ErrUnableToDecodeToken
	}

	if claims.Subject == "" {
		return "", ErrUnableToDecodeToken
	}

	return claims.Subject, nil
}
