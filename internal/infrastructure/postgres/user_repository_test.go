package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// anyArgs n comodines para WithArgs: pgxmock exige la misma cantidad de argumentos.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestUserRepo_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &entity.User{ID: "u1", Username: "ana", Email: "ana@example.com", PasswordHash: "$2a$10$hash", Role: entity.RoleUser, CreatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "ana", "ana@example.com", "$2a$10$hash", "user", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), u))
}

func TestUserRepo_Create_EmailDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(anyArgs(6)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{ID: "u2", Email: "ana@example.com", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_Create_ErrorGenerico(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(anyArgs(6)...).
		WillReturnError(errors.New("conexión cerrada"))

	err := repo.Create(context.Background(), &entity.User{ID: "u3", Role: entity.RoleUser})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}).
		AddRow("a1", "Admin", "admin@jugueteria.com", "$2a$10$hash", "admin", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("admin@jugueteria.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "admin@jugueteria.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, "Admin", u.Username)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepo_GetByEmail_NoExiste(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nadie@example.com").
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.GetByEmail(context.Background(), "nadie@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_GetByEmail_RolDesconocido(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}).
		AddRow("x1", "X", "x@example.com", "h", "root", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("x@example.com").
		WillReturnRows(rows)

	_, err := repo.GetByEmail(context.Background(), "x@example.com")
	assert.Error(t, err)
}
