package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillsenselab/identity-service/auth/password"
	"github.com/skillsenselab/identity-service/auth/principal"
	"github.com/skillsenselab/identity-service/auth/token"
	apperrors "github.com/skillsenselab/identity-service/errors"
	"github.com/skillsenselab/identity-service/logger"
	"github.com/skillsenselab/identity-service/user"
)

// TokenPair is the login response body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AccessToken is the refresh response body.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Service orchestrates signup, login, refresh, and request authentication.
// It holds no mutable state beyond its read-only collaborators and is safe
// for concurrent use.
type Service struct {
	users  user.Store
	hasher password.Hasher
	tokens *token.Service
	log    *logger.Logger
}

// NewService creates the authentication service.
func NewService(users user.Store, hasher password.Hasher, tokens *token.Service, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.WithComponent("auth"),
	}
}

// Signup registers a new account. The email is normalized to lowercase
// before the uniqueness check and the insert, so uniqueness is
// case-insensitive. The returned account has its password hash stripped.
func (s *Service) Signup(ctx context.Context, email, pw string) (*user.Account, error) {
	if email == "" || pw == "" {
		return nil, apperrors.MissingCredentials()
	}
	if len(pw) > password.MaxLength {
		return nil, apperrors.Validation(fmt.Sprintf("Password must be at most %d characters", password.MaxLength))
	}

	normalized := user.NormalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, normalized); err == nil {
		return nil, apperrors.EmailTaken()
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	acc, err := s.users.Insert(ctx, normalized, hash)
	if err != nil {
		// A concurrent signup can win between the lookup and the insert;
		// the store's atomic insert surfaces it as the same conflict.
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperrors.EmailTaken()
		}
		return nil, apperrors.Internal(err)
	}

	s.log.Info("account created", logger.Fields(logger.FieldUserID, acc.ID))

	acc.PasswordHash = ""
	return acc, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// A missing account and a wrong password return the identical error.
func (s *Service) Login(ctx context.Context, email, pw string) (*TokenPair, error) {
	if email == "" || pw == "" {
		return nil, apperrors.MissingCredentials()
	}

	normalized := user.NormalizeEmail(email)

	acc, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Verify(pw, acc.PasswordHash); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	access, err := s.tokens.IssueAccess(acc.ID, acc.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.tokens.IssueRefresh(acc.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("login successful", logger.Fields(logger.FieldUserID, acc.ID, logger.FieldEmail, acc.Email))

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Refresh verifies a refresh token and mints a fresh access token. The new
// token carries only the account id from the refresh claims; no email
// claim is embedded, and no new refresh token is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AccessToken, error) {
	if refreshToken == "" {
		return nil, apperrors.MissingRefreshToken()
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return nil, apperrors.RefreshTokenExpired()
		default:
			return nil, apperrors.InvalidRefreshToken()
		}
	}

	access, err := s.tokens.IssueAccess(claims.AccountID, "")
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("token refreshed", logger.Fields(logger.FieldUserID, claims.AccountID))

	return &AccessToken{
		AccessToken: access,
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Authenticate validates a raw bearer token and resolves the live account
// behind it. The principal is built from the store record, not from the
// token's embedded claims, so a deleted account can never authenticate
// and a stale email claim is never surfaced.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (principal.Principal, error) {
	if rawToken == "" {
		return principal.Principal{}, apperrors.TokenRequired()
	}

	claims, err := s.tokens.VerifyAccess(rawToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return principal.Principal{}, apperrors.TokenExpired()
		default:
			return principal.Principal{}, apperrors.InvalidToken()
		}
	}

	acc, err := s.users.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return principal.Principal{}, apperrors.InvalidToken()
		}
		return principal.Principal{}, apperrors.Internal(err)
	}

	return principal.Principal{ID: acc.ID, Email: acc.Email}, nil
}
