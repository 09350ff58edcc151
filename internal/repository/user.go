package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adboard/adboard/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserNameExists = errors.New("user name already exists")
	ErrUserHasAds     = errors.New("user still owns ads")
)

// CreateUser inserts a new user and fills in the server-assigned fields.
func (s *Session) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO "user" (name, password)
		VALUES ($1, $2)
		RETURNING id, registration_time
	`

	err := s.conn.QueryRow(ctx, query,
		user.Name,
		user.PasswordHash,
	).Scan(&user.ID, &user.RegistrationTime)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserNameExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Session) GetUser(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, name, password, registration_time
		FROM "user"
		WHERE id = $1
	`

	return s.scanUser(s.conn.QueryRow(ctx, query, id))
}

// GetUserByName retrieves a user by their unique name.
func (s *Session) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	query := `
		SELECT id, name, password, registration_time
		FROM "user"
		WHERE name = $1
	`

	return s.scanUser(s.conn.QueryRow(ctx, query, name))
}

// UpdateUser writes the mutable columns of user. registration_time is never written.
func (s *Session) UpdateUser(ctx context.Context, user *model.User) error {
	query := `
		UPDATE "user"
		SET name = $2, password = $3
		WHERE id = $1
	`

	tag, err := s.conn.Exec(ctx, query, user.ID, user.Name, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserNameExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes a user. Users that still own ads cannot be removed.
func (s *Session) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserHasAds
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *Session) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.RegistrationTime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
