package utils_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshualeeee/GetItDone/utils"
)

var userColumns = []string{"id", "username", "name", "email", "password"}

func TestAddUser_Success(t *testing.T) {
	db, mock := newMockDB(t)
	email := "alice@example.com"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, password, name, email)")).
		WithArgs("alice", sqlmock.AnyArg(), nil, "alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", nil, email, "$2a$10$hash"))

	user, err := utils.AddUser(context.Background(), db, "alice", "p@ss1234", nil, &email)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Nil(t, user.Name)
	require.NotNil(t, user.Email)
	assert.Equal(t, email, *user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUser_StoresHash(t *testing.T) {
	db, mock := newMockDB(t)

	hashed := hashArg{password: "p@ss1234"}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", hashed, nil, nil).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", nil, nil, "x"))

	_, err := utils.AddUser(context.Background(), db, "alice", "p@ss1234", nil, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUser_Duplicate(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "existing row skips the insert",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO users").WillReturnRows(sqlmock.NewRows(userColumns))
			},
		},
		{
			name: "unique violation from a concurrent insert",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.expect(mock)

			_, err := utils.AddUser(context.Background(), db, "alice", "p@ss1234", nil, nil)
			assert.ErrorIs(t, err, utils.ErrConflict)
			assert.EqualError(t, err, "username already exists")
		})
	}
}

func TestAuthenticateUser(t *testing.T) {
	hash, err := utils.HashPassword("p@ss1234")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		rows     *sqlmock.Rows
		wantErr  error
	}{
		{
			name:     "correct password",
			password: "p@ss1234",
			rows:     sqlmock.NewRows(userColumns).AddRow(int64(4), "alice", "Alice", nil, hash),
		},
		{
			name:     "wrong password",
			password: "p@ss12345",
			rows:     sqlmock.NewRows(userColumns).AddRow(int64(4), "alice", "Alice", nil, hash),
			wantErr:  utils.ErrUnauthorized,
		},
		{
			name:     "unknown user",
			password: "p@ss1234",
			rows:     sqlmock.NewRows(userColumns),
			wantErr:  utils.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
				WithArgs("alice").
				WillReturnRows(tt.rows)

			user, err := utils.AuthenticateUser(context.Background(), db, "alice", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(4), user.ID)
			require.NotNil(t, user.Name)
			assert.Equal(t, "Alice", *user.Name)
		})
	}
}

func TestGetUserByUsername_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM users").WillReturnError(errors.New("db down"))

	_, err := utils.GetUserByUsername(context.Background(), db, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "looking up user: db down")
	assert.NotErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1 RETURNING username`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

	require.NoError(t, utils.DeleteUser(context.Background(), db, 4))

	mock.ExpectQuery("DELETE FROM users").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"username"}))

	err := utils.DeleteUser(context.Background(), db, 5)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// hashArg matches a bcrypt hash of password.
type hashArg struct {
	password string
}

func (a hashArg) Match(v driver.Value) bool {
	hash, ok := v.(string)
	return ok && hash != a.password && utils.CheckPasswordHash(a.password, hash)
}
