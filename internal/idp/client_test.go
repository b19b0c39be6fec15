package idp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestClient_SignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])

		json.NewEncoder(w).Encode(Session{
			AccessToken:  "token-123",
			TokenType:    "bearer",
			ExpiresIn:    3600,
			RefreshToken: "refresh-123",
			User:         User{ID: "u1", Email: "ada@example.com"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", []byte("secret"))

	session, err := client.SignIn(context.Background(), "ada@example.com", "hunter2")

	assert.NoError(t, err)
	assert.Equal(t, "token-123", session.AccessToken)
	assert.Equal(t, "refresh-123", session.RefreshToken)
	assert.Equal(t, "ada@example.com", session.User.Email)
}

func TestClient_SignUp_Path(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		json.NewEncoder(w).Encode(Session{AccessToken: "t"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", []byte("secret"))

	_, err := client.SignUp(context.Background(), "ada@example.com", "hunter2")
	assert.NoError(t, err)
}

func TestClient_Refresh_GrantType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-123", body["refresh_token"])

		json.NewEncoder(w).Encode(Session{AccessToken: "t2"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", []byte("secret"))

	session, err := client.Refresh(context.Background(), "refresh-123")
	assert.NoError(t, err)
	assert.Equal(t, "t2", session.AccessToken)
}

func TestClient_RelaysProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", []byte("secret"))

	_, err := client.SignUp(context.Background(), "ada@example.com", "hunter2")

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "User already registered", apiErr.Message)
}

func TestClient_ErrorDescriptionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", []byte("secret"))

	_, err := client.SignIn(context.Background(), "ada@example.com", "wrong")

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func signToken(t *testing.T, secret []byte, email string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(secret)
	assert.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	secret := []byte("secret")
	client := NewClient("http://localhost", "test-key", secret)

	signed := signToken(t, secret, "ada@example.com", time.Now().Add(time.Hour))

	claims, err := client.VerifyToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "u1", claims.Subject)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	client := NewClient("http://localhost", "test-key", []byte("secret"))

	signed := signToken(t, []byte("other-secret"), "ada@example.com", time.Now().Add(time.Hour))

	_, err := client.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	secret := []byte("secret")
	client := NewClient("http://localhost", "test-key", secret)

	signed := signToken(t, secret, "ada@example.com", time.Now().Add(-time.Hour))

	_, err := client.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	client := NewClient("http://localhost", "test-key", []byte("secret"))

	_, err := client.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
