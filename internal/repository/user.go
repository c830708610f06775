package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/accountapi/accountapi-go/internal/model"
)

const userColumns = `id, email, password, name, is_active, is_staff, is_superuser, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID and timestamps on it.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC().Truncate(time.Microsecond)

	query := `INSERT INTO users (email, password, name, is_active, is_staff, is_superuser, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{user.Email, user.Password, user.Name, user.IsActive, user.IsStaff, user.IsSuperuser, now, now}

	var err error
	if r.db.driver == DriverPostgres {
		err = r.db.QueryRowxContext(ctx, r.db.Rebind(query+` RETURNING id`), args...).Scan(&user.ID)
	} else {
		var result sql.Result
		result, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
		if err == nil {
			user.ID, err = result.LastInsertId()
		}
	}
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by their exact (normalized) email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// EmailTaken reports whether a user other than excludeID owns email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`), email, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update writes every mutable column of user in a single statement.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	now := time.Now().UTC().Truncate(time.Microsecond)

	query := `UPDATE users
		SET email = ?, password = ?, name = ?, is_active = ?, is_staff = ?, is_superuser = ?, updated_at = ?
		WHERE id = ?`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		user.Email, user.Password, user.Name, user.IsActive, user.IsStaff, user.IsSuperuser, now, user.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.UpdatedAt = now
	return nil
}

// UpdatePassword replaces only the password hash, leaving columns another
// writer may have changed untouched.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET password = ?, updated_at = ? WHERE id = ?`),
		hash, now, id,
	)
	return err
}

// List returns all users ordered by ID.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	if err := r.db.GetContext(ctx, user, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
