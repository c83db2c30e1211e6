package google

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/internal/rest"
	"github.com/kalendo/kalendo/pkg/credential"
	"github.com/kalendo/kalendo/pkg/user"
	log "github.com/sirupsen/logrus"
)

const nonceTTL = 10 * time.Minute

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type googleAuthStatus struct {
	Connected bool `json:"connected"`
}

// nonceStore holds short-lived OAuth state nonces. Nonces are single-use and
// expire after nonceTTL; consuming one removes it.
type nonceStore struct {
	mu     sync.Mutex
	nonces map[string]time.Time
}

func newNonceStore() *nonceStore {
	return &nonceStore{nonces: map[string]time.Time{}}
}

func (s *nonceStore) Issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for nonce, issuedAt := range s.nonces {
		if now.Sub(issuedAt) > nonceTTL {
			delete(s.nonces, nonce)
		}
	}

	nonce := uuid.New().String()
	s.nonces[nonce] = now
	return nonce
}

func (s *nonceStore) Consume(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	issuedAt, ok := s.nonces[nonce]
	if !ok {
		return false
	}
	delete(s.nonces, nonce)
	return time.Since(issuedAt) <= nonceTTL
}

// AuthHandler serves the Google OAuth endpoints: login redirect, callback,
// connection status, and logout.
type AuthHandler struct {
	client      *Client
	userService user.Service
	credentials credential.Repository
	manager     credential.Manager
	eventBus    *event_bus.EventBus
	nonces      *nonceStore
}

func NewAuthHandler(
	client *Client,
	userService user.Service,
	credentials credential.Repository,
	manager credential.Manager,
	eventBus *event_bus.EventBus,
) *AuthHandler {
	return &AuthHandler{
		client:      client,
		userService: userService,
		credentials: credentials,
		manager:     manager,
		eventBus:    eventBus,
		nonces:      newNonceStore(),
	}
}

// OAuthLogin returns the Google consent page URL. The state carries the
// caller's return URL and a single-use nonce validated in the callback.
func (h *AuthHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	finalUrl := r.URL.Query().Get("finalUrl")
	if finalUrl == "" {
		finalUrl = "/"
	}
	nonce := h.nonces.Issue()

	log.Tracef("redirecting to Google auth URL with nonce: %s", nonce)
	u := h.client.AuthCodeURL(finalUrl + "|" + nonce)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(googleAuthRedirect{RedirectUrl: u}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// OAuthCallback finishes the OAuth flow: it validates the state nonce,
// exchanges the code, resolves the Google account to a local user (creating
// one on first login) and stores the credential. The browser is redirected
// back to the URL embedded in the state with a success flag.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	if !h.nonces.Consume(nonce) {
		log.Warnf("rejected Google auth callback with unknown or expired nonce")
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	cred, err := h.client.Exchange(ctx, code)
	if err != nil {
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	info, err := h.client.UserInfo(ctx, cred.AccessToken)
	if err != nil {
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	account, err := h.userService.EnsureUser(ctx, info.Email, info.Name)
	if err != nil {
		log.Errorf("unable to resolve user for %s: %v", info.Email, err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	cred.UserId = account.Id
	if _, err := h.credentials.Store(ctx, cred); err != nil {
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	log.Infof("connected Google Calendar for user %d", account.Id)
	h.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EventTypeCalendarConnected, account.Id))
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

// Status reports whether the current user has a stored Google credential.
// It does not refresh; an expired-but-refreshable credential still counts
// as connected.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userId, err := user.CurrentId(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cred, err := h.credentials.Get(r.Context(), userId)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not read credential status", err)
		return
	}

	if err := json.NewEncoder(w).Encode(googleAuthStatus{Connected: cred != nil}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// OAuthLogout revokes the current user's credential. Logging out while not
// connected succeeds.
func (h *AuthHandler) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userId, err := user.CurrentId(ctx)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.manager.Revoke(ctx, userId); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to disconnect Google Calendar", err)
		return
	}

	h.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EventTypeCalendarDisconnected, userId))
	w.WriteHeader(http.StatusNoContent)
}
