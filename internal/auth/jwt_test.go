package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("super-secret", time.Hour).WithClock(fixedClock(issuedAt))

	tok, exp, err := issuer.Issue("user-123")
	require.NoError(t, err)
	assert.True(t, exp.Equal(issuedAt.Add(time.Hour)))

	claims, err := issuer.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.True(t, claims.IssuedAt.Time.Equal(issuedAt))
	assert.True(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)))
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer("k", 0)
	assert.Equal(t, DefaultTokenTTL, issuer.ttl)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", time.Hour).WithClock(fixedClock(issuedAt))

	tok, _, err := issuer.Issue("u1")
	require.NoError(t, err)

	// Still valid one second before expiry.
	_, err = issuer.WithClock(fixedClock(issuedAt.Add(time.Hour - time.Second))).Validate(tok)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(issuedAt.Add(time.Hour + time.Second))).Validate(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	tok, _, err := NewTokenIssuer("right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret", time.Hour).Validate(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "u3",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("k", time.Hour).Validate(tok)
	assert.Error(t, err)
}

func TestTokenIssuer_EmptyKey(t *testing.T) {
	_, _, err := NewTokenIssuer("", time.Hour).Issue("u")
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("mw-secret", time.Hour)
	tok, _, err := issuer.Issue("user-9")
	require.NoError(t, err)

	var seen string
	protected := JWTMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = claims.UserID
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tok}) }, http.StatusNoContent},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "user-9", seen)
			} else {
				assert.Empty(t, seen)
				assert.Contains(t, rec.Body.String(), "auth token")
			}
		})
	}
}
