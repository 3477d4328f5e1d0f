package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/jugueteria-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "jugueteria-test"
	testSID    = "8d2f9c1e-0000-4000-8000-000000000001"
)

func TestGenerateAndParse(t *testing.T) {
	now := time.Now()
	tok, err := pkgjwt.Generate(testSecret, testSID, testIssuer, now, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sid, err := pkgjwt.Parse(testSecret, testIssuer, tok)
	require.NoError(t, err)
	assert.Equal(t, testSID, sid)
}

func TestParse_TokenExpirado(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	tok, err := pkgjwt.Generate(testSecret, testSID, testIssuer, past, past.Add(24*time.Hour))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	now := time.Now()
	tok, err := pkgjwt.Generate(testSecret, testSID, testIssuer, now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", testIssuer, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_EmisorDistinto(t *testing.T) {
	now := time.Now()
	tok, err := pkgjwt.Generate(testSecret, testSID, "otra-app", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", testSID, testIssuer, time.Now(), time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestParse_Basura(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, testIssuer, "token.invalido.aqui")
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}
