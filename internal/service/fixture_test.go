package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/accountapi/accountapi-go/internal/crypto"
	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/repository/repotest"
	"github.com/accountapi/accountapi-go/internal/validate"
)

const testSecret = "test-secret"

type fixture struct {
	users   *repository.UserRepository
	tokens  *repository.TokenRepository
	hasher  *crypto.Hasher
	manager *UserManager
	userSvc *UserService
	authSvc *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithHasher(t, newTestHasher(t))
}

func newFixtureWithHasher(t *testing.T, hasher *crypto.Hasher) *fixture {
	t.Helper()

	db := repotest.NewDB(t)
	v := validate.New()
	users := repository.NewUserRepository(db)
	tokens := repository.NewTokenRepository(db)
	manager := NewUserManager(users, hasher, v)

	return &fixture{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		manager: manager,
		userSvc: NewUserService(users, manager, v),
		authSvc: NewAuthService(users, tokens, hasher, v, testSecret, 0),
	}
}

func newTestHasher(t *testing.T) *crypto.Hasher {
	t.Helper()
	h, err := crypto.NewHasher(crypto.AlgorithmBcrypt, crypto.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	return h
}

func ttlAuthService(f *fixture, ttl time.Duration) *AuthService {
	return NewAuthService(f.users, f.tokens, f.hasher, validate.New(), testSecret, ttl)
}
