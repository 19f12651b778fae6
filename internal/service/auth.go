// Package service contains application services for login and user profiles.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/errs"
	"github.com/gamenight/users-service/internal/limiter"
	"github.com/gamenight/users-service/internal/model"
	"github.com/gamenight/users-service/internal/repository"
	"github.com/gamenight/users-service/internal/token"
)

// IdentityClient exchanges a third-party authorization code for a stable
// external account id.
type IdentityClient interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token   string
	User    model.User
	Created bool
}

// AuthService defines the login operation.
type AuthService interface {
	// Login exchanges the authorization code, reserves the identity and
	// issues a signed session token. clientIP feeds rate limiting.
	Login(ctx context.Context, authCode, clientIP string) (LoginResult, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	identity IdentityClient
	composer *token.Composer
	lim      limiter.Limiter
	log      *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, identity IdentityClient,
	composer *token.Composer, lim limiter.Limiter, log *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, identity: identity, composer: composer, lim: lim, log: log}
}

// Login authenticates via the identity exchange with per-IP rate limiting.
func (s *AuthServiceImpl) Login(ctx context.Context, authCode, clientIP string) (LoginResult, error) {
	if authCode == "" {
		return LoginResult{}, errors.New("empty auth code")
	}
	ipHash := limiter.HashIP(clientIP)

	allowed, _, err := s.lim.Allow(ctx, ipHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !allowed {
		return LoginResult{}, errs.ErrRateLimited
	}

	accountID, err := s.identity.ExchangeCode(ctx, authCode)
	if err != nil {
		s.log.Info("identity exchange rejected", zap.Error(err))
		if blocked, _, ferr := s.lim.Failure(ctx, ipHash); ferr == nil && blocked {
			return LoginResult{}, errs.ErrRateLimited
		}
		return LoginResult{}, errs.ErrUnauthorized
	}

	// Reset counters (best-effort).
	_ = s.lim.Success(ctx, ipHash)

	created, err := s.users.UpsertStub(ctx, accountID)
	if err != nil {
		return LoginResult{}, err
	}

	signed, err := s.composer.Sign(token.NewSessionPayload(accountID, model.DefaultGrant))
	if err != nil {
		return LoginResult{}, err
	}

	u := model.User{ID: accountID}
	if users, err := s.users.Lookup(ctx, []string{accountID}, 0, 0); err == nil && len(users) > 0 {
		u = users[0]
	} else if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return LoginResult{}, err
	}

	return LoginResult{Token: signed, User: u, Created: created}, nil
}
