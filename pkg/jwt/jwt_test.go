package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "almacen-api-test"
)

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana", "staff", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, username, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, "ana", username)
	assert.Equal(t, "staff", role)
}

func TestTokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana", "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestSecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana", "admin", testIssuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestSecretVacio_NoFirma(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, "ana", "admin", testIssuer, 60)
	assert.Error(t, err)
}

// Un token de refresco no sirve como token de acceso y viceversa.
func TestTiposDeToken_NoIntercambiables(t *testing.T) {
	refresh, err := pkgjwt.GenerateRefresh(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testSecret, refresh)
	assert.Error(t, err, "refresh no debe aceptarse como access")

	userID, err := pkgjwt.ParseRefresh(testSecret, refresh)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)

	access, err := pkgjwt.Generate(testSecret, testUserID, "ana", "admin", testIssuer, 60)
	require.NoError(t, err)
	_, err = pkgjwt.ParseRefresh(testSecret, access)
	assert.Error(t, err, "access no debe aceptarse como refresh")
}
