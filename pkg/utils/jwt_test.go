package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTripThroughRequest(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("u-1", "admin@example.com", "admin", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	claims, err := ExtractClaims(req)
	require.NoError(t, err)
	require.Equal(t, &Claims{UserID: "u-1", Email: "admin@example.com", Role: "admin"}, claims)
}

func TestJWT_CookieFallback(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("u-2", "a@b.c", "customer", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})

	require.Equal(t, token, TokenFromRequest(req))
}

func TestJWT_ExpiredRejected(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("u-3", "a@b.c", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	require.Error(t, err)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	SetSecret("one")
	token, err := GenerateJWT("u-4", "a@b.c", "admin", time.Minute)
	require.NoError(t, err)

	SetSecret("two")
	_, err = ValidateJWT(token)
	require.Error(t, err)
}

func TestExtractClaims_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractClaims(req)
	require.Error(t, err)
}
