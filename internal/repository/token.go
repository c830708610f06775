package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/accountapi/accountapi-go/internal/model"
)

const tokenColumns = `token_key, user_id, created_at`

// TokenRepository stores the one auth token each user may hold.
type TokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetOrCreate returns the user's token, creating it on first use.
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID int64) (*model.AuthToken, error) {
	token, err := r.GetByUser(ctx, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrTokenNotFound) {
		return nil, err
	}

	token = &model.AuthToken{
		Key:       newTokenKey(),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err = r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO auth_tokens (token_key, user_id, created_at) VALUES (?, ?, ?)`),
		token.Key, token.UserID, token.CreatedAt,
	)
	if err != nil {
		// A concurrent login created the token first.
		if isDuplicateEntryError(err) {
			return r.GetByUser(ctx, userID)
		}
		return nil, err
	}

	return token, nil
}

// GetByKey retrieves a token by its key.
func (r *TokenRepository) GetByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	return r.get(ctx, `SELECT `+tokenColumns+` FROM auth_tokens WHERE token_key = ?`, key)
}

// GetByUser retrieves the token owned by userID.
func (r *TokenRepository) GetByUser(ctx context.Context, userID int64) (*model.AuthToken, error) {
	return r.get(ctx, `SELECT `+tokenColumns+` FROM auth_tokens WHERE user_id = ?`, userID)
}

// DeleteByUser revokes the user's token, if any.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM auth_tokens WHERE user_id = ?`), userID)
	return err
}

func (r *TokenRepository) get(ctx context.Context, query string, arg any) (*model.AuthToken, error) {
	token := &model.AuthToken{}
	if err := r.db.GetContext(ctx, token, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return token, nil
}

func newTokenKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
