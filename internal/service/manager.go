package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/accountapi/accountapi-go/internal/crypto"
	"github.com/accountapi/accountapi-go/internal/model"
	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/validate"
)

// UserOption sets optional fields on a user before it is stored.
type UserOption func(*model.User)

func WithName(name string) UserOption {
	return func(u *model.User) { u.Name = name }
}

func WithActive(active bool) UserOption {
	return func(u *model.User) { u.IsActive = active }
}

func WithStaff(staff bool) UserOption {
	return func(u *model.User) { u.IsStaff = staff }
}

func WithSuperuser(superuser bool) UserOption {
	return func(u *model.User) { u.IsSuperuser = superuser }
}

// UserManager constructs account records: it normalizes the email, hashes
// the password and persists the result.
type UserManager struct {
	users     UserStore
	hasher    *crypto.Hasher
	validator *validate.Validator
}

// NewUserManager creates a new UserManager.
func NewUserManager(users UserStore, hasher *crypto.Hasher, v *validate.Validator) *UserManager {
	return &UserManager{users: users, hasher: hasher, validator: v}
}

// CreateUser stores a new active, non-staff user. It returns validate.Errors
// when email is empty, malformed or already registered. An empty password
// leaves the account without a usable password.
func (m *UserManager) CreateUser(ctx context.Context, email, password string, opts ...UserOption) (*model.User, error) {
	if err := m.validator.Email(email); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    validate.NormalizeEmail(email),
		IsActive: true,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := m.SetPassword(user, password); err != nil {
		return nil, err
	}

	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, validate.FieldError("email", MsgEmailTaken)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// CreateSuperuser is CreateUser with staff and superuser forced on.
func (m *UserManager) CreateSuperuser(ctx context.Context, email, password string, opts ...UserOption) (*model.User, error) {
	opts = append(opts, WithStaff(true), WithSuperuser(true))
	return m.CreateUser(ctx, email, password, opts...)
}

// SetPassword hashes password onto user without saving it.
func (m *UserManager) SetPassword(user *model.User, password string) error {
	hash, err := m.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	user.Password = hash
	return nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (m *UserManager) CheckPassword(user *model.User, password string) (bool, error) {
	return m.hasher.Verify(password, user.Password)
}
