package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "s3cret", Issuer: "agenda"}

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseValidToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{
		"sub":    "me",
		"iss":    "agenda",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopeActivitiesWrite},
	}, testConfig.Secret)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "me", claims.Subject)
	require.True(t, claims.HasScope(ScopeActivitiesWrite))
	require.True(t, claims.HasScope(ScopeActivitiesRead))
}

func TestParseRejects(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	cases := map[string]string{
		"wrong secret": sign(t, jwt.MapClaims{"sub": "me", "iss": "agenda", "exp": exp}, "other"),
		"wrong issuer": sign(t, jwt.MapClaims{"sub": "me", "iss": "else", "exp": exp}, testConfig.Secret),
		"expired":      sign(t, jwt.MapClaims{"sub": "me", "iss": "agenda", "exp": time.Now().Add(-time.Hour).Unix()}, testConfig.Secret),
		"no subject":   sign(t, jwt.MapClaims{"iss": "agenda", "exp": exp}, testConfig.Secret),
		"no expiry":    sign(t, jwt.MapClaims{"sub": "me", "iss": "agenda"}, testConfig.Secret),
	}
	for name, token := range cases {
		_, err := Parse(token, testConfig)
		require.ErrorIs(t, err, ErrInvalidToken, name)
	}

	_, err := Parse("  ", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewMiddleware(testConfig).Wrap(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/activities", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Nil(t, seen)

	token := sign(t, jwt.MapClaims{"sub": "me", "iss": "agenda", "exp": time.Now().Add(time.Hour).Unix(), "scopes": "activities:read"}, testConfig.Secret)
	req := httptest.NewRequest(http.MethodGet, "/v1/activities", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	require.True(t, seen.HasScope(ScopeActivitiesRead))
	require.False(t, seen.HasScope(ScopeActivitiesWrite))
}
