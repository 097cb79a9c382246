package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	issuer := auth.NewTokenIssuer("unit-test-secret", time.Hour)

	token, err := issuer.Issue("user1", "user@example.com", models.RolePassenger)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, models.RolePassenger, claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret-a", time.Hour)
	other := auth.NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue("user1", "user@example.com", models.RolePassenger)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("unit-test-secret", -time.Minute)

	token, err := issuer.Issue("user1", "user@example.com", models.RolePassenger)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}

func TestExtractTokenFromRequest(t *testing.T) {
	r, _ := http.NewRequest("GET", "/api/tickets", nil)

	_, err := auth.ExtractTokenFromRequest(r)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))

	r.Header.Set("Authorization", "Basic abc")
	_, err = auth.ExtractTokenFromRequest(r)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))

	r.Header.Set("Authorization", "Bearer the-token")
	token, err := auth.ExtractTokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "the-token", token)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, auth.CheckPassword(hash, "wrong password"))
}
