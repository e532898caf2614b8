package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-storefront/internal/common"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{Secret: "test-secret-test-secret-test-1234"})
	require.NoError(t, err)
	return v
}

func TestMintAndParseRoundTrip(t *testing.T) {
	v := newTestVerifier(t)

	token, expiry, err := v.Mint("7b2f9d34-5f7e-4a41-9c5a-0f8f6b1a2c3d")
	require.NoError(t, err)
	require.True(t, expiry.After(time.Now()))

	subject, err := v.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "7b2f9d34-5f7e-4a41-9c5a-0f8f6b1a2c3d", subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier(Config{Secret: "another-secret-another-secret-99"})
	require.NoError(t, err)

	token, _, err := other.Mint("user-1")
	require.NoError(t, err)

	_, err = v.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	v := newTestVerifier(t)
	v.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := v.Mint("user-1")
	require.NoError(t, err)

	v.now = time.Now
	_, err = v.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	v := newTestVerifier(t)

	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject("user-1").
		Issuer("someone-else").
		Audience([]string{"storefront-web"}).
		IssuedAt(now).
		Expiration(now.Add(time.Minute)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("test-secret-test-secret-test-1234")))
	require.NoError(t, err)

	_, err = v.ParseAccessToken(string(signed))
	require.Error(t, err)
}

func TestParseRejectsMissingToken(t *testing.T) {
	v := newTestVerifier(t)
	_, err := v.ParseAccessToken("   ")
	require.Error(t, err)
}

func TestRequireAuthSetsUserContext(t *testing.T) {
	v := newTestVerifier(t)
	mw := Middleware{Verifier: v}

	token, _, err := v.Mint("user-42")
	require.NoError(t, err)

	var seen string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = common.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "user-42", seen)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	mw := Middleware{Verifier: newTestVerifier(t)}
	handler := mw.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatePassesThroughWithoutToken(t *testing.T) {
	mw := Middleware{Verifier: newTestVerifier(t)}
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := common.UserID(r.Context())
		require.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
