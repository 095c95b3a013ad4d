package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawzo/lawzo/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	id, err := ParseToken(secret, sign(t, jwt.MapClaims{"sub": "alice@example.com", "exp": exp}, secret))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id)

	id, err = ParseToken(secret, sign(t, jwt.MapClaims{"user_id": float64(42), "exp": exp}, secret))
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = ParseToken(secret, sign(t, jwt.MapClaims{"sub": "x", "exp": exp}, "other"))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ParseToken(secret, sign(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}, secret))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ParseToken(secret, sign(t, jwt.MapClaims{"role": "admin"}, secret))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, ok := UserID(r.Context())
	if !ok {
		id = "anonymous"
	}
	w.Write([]byte(id))
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(config.Config{JWTSecret: secret})(http.HandlerFunc(echoUser))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"sub": "u1"}, secret))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", rr.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	h := OptionalAuthMiddleware(config.Config{JWTSecret: secret})(http.HandlerFunc(echoUser))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "anonymous", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"sub": "u9"}, secret))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "u9", rr.Body.String())
}
