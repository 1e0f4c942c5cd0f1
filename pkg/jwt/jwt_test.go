package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	token, exp, err := jwt.Generate(secret, "u1", "ana@example.com", "ventas-api", 60)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	userID, email, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "ana@example.com", email)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, _, err := jwt.Generate(secret, "u1", "", "ventas-api", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, _, err := jwt.Generate(secret, "u1", "", "ventas-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_TokenExternoSoloConSub(t *testing.T) {
	claims := gojwt.MapClaims{
		"sub":   "supabase-user",
		"email": "ana@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"role":  "authenticated",
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	userID, email, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "supabase-user", userID)
	assert.Equal(t, "ana@example.com", email)
}

func TestSecretVacio(t *testing.T) {
	_, _, err := jwt.Generate("", "u1", "", "", 60)
	assert.Error(t, err)
	_, _, err = jwt.Parse("", "x")
	assert.Error(t, err)
}
