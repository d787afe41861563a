// Package token issues and verifies the service's JWT access and refresh
// tokens.
//
// Tokens are stateless: there is no registry of issued or revoked tokens,
// and validity is solely a function of signature and expiry at
// verification time. Verification failures collapse to exactly two
// sentinel errors so callers never learn whether a token was forged,
// truncated, or signed with the wrong key.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification errors.
var (
	// ErrMalformed covers structural, signature, and wrong-key failures.
	// It is checked before expiry: a token signed with the wrong secret is
	// malformed even if its expiry has also passed.
	ErrMalformed = errors.New("token: malformed")

	// ErrExpired indicates a well-signed token past its expiry.
	ErrExpired = errors.New("token: expired")
)

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
}

// RefreshClaims is the claim set carried by refresh tokens. Refresh tokens
// deliberately omit the email so a stale address can never be replayed.
type RefreshClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// Service issues and verifies both token kinds.
type Service struct {
	cfg Config
	now func() time.Time
}

// Option configures the token service.
type Option func(*Service)

// WithClock overrides the time source used for issuance and expiry
// checks. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a token service from config.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.cfg.AccessTTL
}

// IssueAccess creates a signed access token for the account. Issuance time
// is embedded, so repeated calls with the same claims produce distinct
// tokens.
func (s *Service) IssueAccess(accountID, email string) (string, error) {
	claims := &AccessClaims{
		RegisteredClaims: s.registeredClaims(accountID, s.cfg.AccessTTL),
		AccountID:        accountID,
		Email:            email,
	}
	return s.sign(claims, s.cfg.AccessSecret)
}

// IssueRefresh creates a signed refresh token for the account.
func (s *Service) IssueRefresh(accountID string) (string, error) {
	claims := &RefreshClaims{
		RegisteredClaims: s.registeredClaims(accountID, s.cfg.RefreshTTL),
		AccountID:        accountID,
	}
	return s.sign(claims, s.cfg.RefreshSecret)
}

// VerifyAccess validates an access token and returns its claims, or
// ErrMalformed / ErrExpired.
func (s *Service) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims, s.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns its claims, or
// ErrMalformed / ErrExpired.
func (s *Service) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) registeredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *Service) sign(claims jwt.Claims, secret string) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// parse verifies structure and signature, then expiry, mapping library
// errors to the package sentinels. No leeway is applied to the expiry
// boundary.
func (s *Service) parse(tokenString string, claims jwt.Claims, secret string) error {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("token: unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(secret), nil
	}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrExpired
		default:
			return ErrMalformed
		}
	}
	if !parsed.Valid {
		return ErrMalformed
	}
	return nil
}
