package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/accountapi/accountapi-go/internal/model"
	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/validate"
)

// UserService validates request schemas for account creation and profile
// updates, then applies them through the UserManager.
type UserService struct {
	users     UserStore
	manager   *UserManager
	validator *validate.Validator
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, manager *UserManager, v *validate.Validator) *UserService {
	return &UserService{users: users, manager: manager, validator: v}
}

// Create registers a new account. Nothing is stored unless every field is valid.
func (s *UserService) Create(ctx context.Context, req model.UserRequest) (*model.User, error) {
	errs := s.validator.Struct(req)
	if _, err := s.checkEmail(ctx, req.Email, 0, errs); err != nil {
		return nil, err
	}
	if errs.HasErrors() {
		return nil, errs
	}

	return s.manager.CreateUser(ctx, req.Email, req.Password, WithName(req.Name))
}

// Update applies a partial update to user. Omitted fields keep their value
// and a supplied password is re-hashed.
func (s *UserService) Update(ctx context.Context, user *model.User, patch model.UserPatch) (*model.User, error) {
	errs := s.validator.Struct(patch)
	updated := *user

	if patch.Email != nil {
		email, err := s.checkEmail(ctx, *patch.Email, user.ID, errs)
		if err != nil {
			return nil, err
		}
		updated.Email = email
	}
	if patch.Password != nil && *patch.Password == "" {
		errs.Add("password", MsgBlank)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Password != nil {
		if err := s.manager.SetPassword(&updated, *patch.Password); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, validate.FieldError("email", MsgEmailTaken)
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return &updated, nil
}

// Replace is a full update: email and password are required and an omitted
// name is cleared.
func (s *UserService) Replace(ctx context.Context, user *model.User, req model.UserRequest) (*model.User, error) {
	if errs := s.validator.Struct(req); errs.HasErrors() {
		return nil, errs
	}
	return s.Update(ctx, user, model.UserPatch{
		Email:    &req.Email,
		Password: &req.Password,
		Name:     &req.Name,
	})
}

// List returns every account ordered by id. Only staff may list.
func (s *UserService) List(ctx context.Context, actor *model.User) ([]model.User, error) {
	if actor == nil || !actor.IsStaff {
		return nil, ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// checkEmail adds format and uniqueness failures to errs and returns the
// normalized address. Only storage failures are returned as errors.
func (s *UserService) checkEmail(ctx context.Context, email string, excludeID int64, errs validate.Errors) (string, error) {
	if _, failed := errs["email"]; failed {
		return "", nil
	}

	if err := s.validator.Email(email); err != nil {
		var verrs validate.Errors
		if !errors.As(err, &verrs) {
			return "", err
		}
		errs.Merge(verrs)
		return "", nil
	}

	normalized := validate.NormalizeEmail(email)
	taken, err := s.users.EmailTaken(ctx, normalized, excludeID)
	if err != nil {
		return "", fmt.Errorf("checking email: %w", err)
	}
	if taken {
		errs.Add("email", MsgEmailTaken)
	}
	return normalized, nil
}
