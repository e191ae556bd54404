package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/joshualeeee/GetItDone/models"
)

// AddUser hashes password and inserts the user unless the username is taken.
func AddUser(ctx context.Context, db DBTX, username, password string, name, email *string) (*models.User, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	const stmt = `
		WITH check_existing AS (
			SELECT id FROM users WHERE username = $1
		)
		INSERT INTO users (username, password, name, email)
		SELECT $1, $2, $3::text, $4::text
		WHERE NOT EXISTS (SELECT 1 FROM check_existing)
		RETURNING id, username, name, email, password`

	user := &models.User{}
	err = sqlx.GetContext(ctx, db, user, stmt, username, passwordHash, name, email)
	if errors.Is(err, sql.ErrNoRows) || pgErrorCode(err) == pgUniqueViolation {
		return nil, fmt.Errorf("username %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("adding user: %w", err)
	}
	return user, nil
}

func GetUserByUsername(ctx context.Context, db DBTX, username string) (*models.User, error) {
	const stmt = `SELECT id, username, name, email, password FROM users WHERE username = $1`

	user := &models.User{}
	err := sqlx.GetContext(ctx, db, user, stmt, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// AuthenticateUser returns the user when password matches its stored hash.
// An unknown username yields ErrNotFound, a wrong password ErrUnauthorized.
func AuthenticateUser(ctx context.Context, db DBTX, username, password string) (*models.User, error) {
	user, err := GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// DeleteUser removes the user; its goals and tasks go with it.
func DeleteUser(ctx context.Context, db DBTX, userID int64) error {
	const stmt = `DELETE FROM users WHERE id = $1 RETURNING username`

	var username string
	err := sqlx.GetContext(ctx, db, &username, stmt, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
