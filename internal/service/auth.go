package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/accountapi/accountapi-go/internal/crypto"
	"github.com/accountapi/accountapi-go/internal/model"
	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/validate"
)

// dummyPassword is hashed once and verified against when the email is
// unknown, so both failure paths cost one hash.
const dummyPassword = "accountapi-timing-equalizer"

// AuthService exchanges credentials for bearer tokens and resolves bearer
// tokens back to users.
type AuthService struct {
	users     UserStore
	tokens    TokenStore
	hasher    *crypto.Hasher
	validator *validate.Validator
	secret    string
	ttl       time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. A zero ttl issues tokens that
// stay valid until revoked.
func NewAuthService(users UserStore, tokens TokenStore, hasher *crypto.Hasher, v *validate.Validator, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		validator: v,
		secret:    secret,
		ttl:       ttl,
	}
}

// ObtainToken checks the credential pair and returns the user's token,
// creating it on first login. Unknown, inactive or mismatched accounts all
// yield ErrInvalidCredentials.
func (s *AuthService) ObtainToken(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error) {
	if errs := s.validator.Struct(req); errs.HasErrors() {
		return model.TokenResponse{}, errs
	}

	user, err := s.users.GetByEmail(ctx, validate.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.verifyDummy(req.Password)
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, fmt.Errorf("loading user: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match || !user.IsActive {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.Password) {
		if err := s.rehash(ctx, user, req.Password); err != nil {
			return model.TokenResponse{}, err
		}
	}

	token, err := s.tokens.GetOrCreate(ctx, user.ID)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("issuing token: %w", err)
	}

	signed, err := crypto.GenerateToken(user.ID, token.Key, s.secret, s.ttl)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("signing token: %w", err)
	}

	return model.TokenResponse{Token: signed}, nil
}

// Authenticate resolves a bearer token to its active owner.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*model.User, error) {
	claims, err := crypto.ValidateToken(bearer, s.secret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	token, err := s.tokens.GetByKey(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading token: %w", err)
	}
	if token.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// Revoke deletes the user's token. Tokens signed for it stop working and the
// next login issues a new one.
func (s *AuthService) Revoke(ctx context.Context, user *model.User) error {
	if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

func (s *AuthService) rehash(ctx context.Context, user *model.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("rehashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("saving rehashed password: %w", err)
	}
	user.Password = hash
	return nil
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	_, _ = s.hasher.Verify(password, s.dummyHash)
}
