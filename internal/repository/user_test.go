package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/useraccounts/useraccounts-go/internal/model"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "mysql")), mock
}

var userCols = []string{"id", "name", "surname", "email", "password_hash", "created_at", "updated_at"}

func TestSentinelErrors(t *testing.T) {
	require.EqualError(t, ErrUserNotFound, "user not found")
	require.EqualError(t, ErrDuplicateEmail, "email already exists")
}

func TestIsDuplicateEntryError(t *testing.T) {
	require.False(t, isDuplicateEntryError(nil))
	require.False(t, isDuplicateEntryError(ErrUserNotFound))
	require.True(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	require.False(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1045}))
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (name, surname, email, password_hash)`)).
		WithArgs("Foo", "Bar", "foo@bar.com", "$argon2id$hash").
		WillReturnResult(sqlmock.NewResult(7, 1))

	u := &model.User{Name: "Foo", Surname: "Bar", Email: "foo@bar.com", PasswordHash: "$argon2id$hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	require.Equal(t, int64(7), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'foo@bar.com'"})

	err := repo.Create(context.Background(), &model.User{Email: "foo@bar.com"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("foo@bar.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "Foo", "Bar", "foo@bar.com", "$argon2id$hash", now, now))

	u, err := repo.GetByEmail(context.Background(), "foo@bar.com")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "Foo", u.Name)
	require.Equal(t, "$argon2id$hash", u.PasswordHash.Reveal())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM users WHERE email`).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByEmail(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Nil(t, u)
}

func TestGetByIDBackendError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`FROM users WHERE id`).WithArgs(int64(3)).WillReturnError(boom)

	_, err := repo.GetByID(context.Background(), 3)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrUserNotFound)
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users ORDER BY id LIMIT ?`)).
		WithArgs(listLimit).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "Foo", "Bar", "foo@bar.com", "h1", now, now).
			AddRow(2, "Baz", "Qux", "baz@qux.com", "h2", now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "baz@qux.com", users[1].Email)
}

func TestUpdatePartial(t *testing.T) {
	repo, mock := newMockRepo(t)
	name := "Fooo"

	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(sql.NullString{String: "Fooo", Valid: true}, sql.NullString{}, sql.NullString{}, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Update(context.Background(), 1, &name, nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword(t *testing.T) {
	repo, mock := newMockRepo(t)
	hash := model.Secret("$argon2id$new")

	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(sql.NullString{}, sql.NullString{}, sql.NullString{String: "$argon2id$new", Valid: true}, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Update(context.Background(), 1, nil, nil, &hash)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), 9)
	require.NoError(t, err)
	require.Zero(t, n)
}
