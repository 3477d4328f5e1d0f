package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/pkg/config"
)

type memUsers map[string]*entity.User

func (m memUsers) Create(_ context.Context, u *entity.User) error {
	m[u.Email] = u
	return nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m[email], nil
}

func TestSeedAdmin(t *testing.T) {
	users := memUsers{}
	admin := config.AdminConfig{Username: "Admin", Email: "admin@jugueteria.com", Password: "admin123"}

	created, err := seedAdmin(context.Background(), users, admin, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, created)

	u := users[admin.Email]
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("admin123")))

	created, err = seedAdmin(context.Background(), users, admin, bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, created, "segunda ejecución no duplica")
	assert.Len(t, users, 1)
}

func TestSeedAdmin_PasswordDemasiadoLarga(t *testing.T) {
	users := memUsers{}
	admin := config.AdminConfig{Username: "Admin", Email: "admin@jugueteria.com", Password: strings.Repeat("x", 73)}

	created, err := seedAdmin(context.Background(), users, admin, bcrypt.MinCost)
	assert.Error(t, err)
	assert.False(t, created)
	assert.Empty(t, users)
}
