package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kalendo/kalendo/internal/config"
	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/pkg/credential"
	"github.com/kalendo/kalendo/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubManager struct {
	revoked []int
}

func (m *stubManager) EnsureValid(ctx context.Context, userId int) (credential.Credential, error) {
	return credential.Credential{}, nil
}

func (m *stubManager) Revoke(ctx context.Context, userId int) error {
	m.revoked = append(m.revoked, userId)
	return nil
}

func newTestAuthHandler(credentials credential.Repository, manager credential.Manager) *AuthHandler {
	client := NewClient(config.Application{
		Host:   "http://localhost:3000",
		Google: config.Google{ClientId: "client-id", ClientSecret: "client-secret"},
	})
	return NewAuthHandler(client, user.NewUserService(user.NewStubUserRepo()), credentials, manager, event_bus.NewEventBus())
}

func asUser(r *http.Request, userId int) *http.Request {
	return r.WithContext(user.WithUser(r.Context(), user.User{Id: userId, Username: "alice"}))
}

func TestOAuthLogin(t *testing.T) {
	handler := newTestAuthHandler(credential.NewStubRepository(), &stubManager{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/login?finalUrl=/settings", nil)
	w := httptest.NewRecorder()
	handler.OAuthLogin(w, asUser(req, 1))

	require.Equal(t, http.StatusOK, w.Code)
	var response googleAuthRedirect
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Contains(t, response.RedirectUrl, "accounts.google.com")
	assert.Contains(t, response.RedirectUrl, "client-id")
	assert.Contains(t, response.RedirectUrl, "access_type=offline")
}

func TestOAuthCallbackRejectsUnknownNonce(t *testing.T) {
	handler := newTestAuthHandler(credential.NewStubRepository(), &stubManager{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state=/settings|bogus-nonce", nil)
	w := httptest.NewRecorder()
	handler.OAuthCallback(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/settings?success=false", w.Header().Get("Location"))
}

func TestStatus(t *testing.T) {
	t.Run("connected when a credential is stored", func(t *testing.T) {
		credentials := credential.NewStubRepository()
		_, err := credentials.Store(context.Background(), credential.Credential{
			UserId:      1,
			AccessToken: "access-1",
			Expiry:      time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		handler := newTestAuthHandler(credentials, &stubManager{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/status", nil)
		w := httptest.NewRecorder()
		handler.Status(w, asUser(req, 1))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"connected": true}`, w.Body.String())
	})

	t.Run("not connected without a credential", func(t *testing.T) {
		handler := newTestAuthHandler(credential.NewStubRepository(), &stubManager{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/status", nil)
		w := httptest.NewRecorder()
		handler.Status(w, asUser(req, 1))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"connected": false}`, w.Body.String())
	})

	t.Run("unauthorized without a user", func(t *testing.T) {
		handler := newTestAuthHandler(credential.NewStubRepository(), &stubManager{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/status", nil)
		w := httptest.NewRecorder()
		handler.Status(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOAuthLogout(t *testing.T) {
	manager := &stubManager{}
	handler := newTestAuthHandler(credential.NewStubRepository(), manager)

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/google/logout", nil)
	w := httptest.NewRecorder()
	handler.OAuthLogout(w, asUser(req, 1))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int{1}, manager.revoked)
}

func TestNonceStore(t *testing.T) {
	store := newNonceStore()

	nonce := store.Issue()
	assert.True(t, store.Consume(nonce))
	// single use
	assert.False(t, store.Consume(nonce))
	assert.False(t, store.Consume("never-issued"))
}
