package service

import (
	"context"

	"github.com/accountapi/accountapi-go/internal/model"
)

// UserStore persists accounts. *repository.UserRepository implements it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context) ([]model.User, error)
}

// TokenStore persists auth tokens. *repository.TokenRepository implements it.
type TokenStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*model.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*model.AuthToken, error)
	DeleteByUser(ctx context.Context, userID int64) error
}
