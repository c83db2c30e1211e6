package credential

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kalendo/kalendo/internal/utils"
	log "github.com/sirupsen/logrus"
)

// RefreshedToken is the provider's answer to a refresh exchange.
type RefreshedToken struct {
	AccessToken string
	Expiry      time.Time
}

// TokenRefresher exchanges a refresh token for a fresh access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (RefreshedToken, error)
}

type Manager interface {
	EnsureValid(ctx context.Context, userId int) (Credential, error)
	Revoke(ctx context.Context, userId int) error
}

// ManagerImpl owns the credential lifecycle: expiry checking, refresh
// orchestration, and revocation. All credential writes go through here
// (plus the OAuth callback storing the initial credential).
type ManagerImpl struct {
	repo      Repository
	refresher TokenRefresher
	clock     utils.Clock

	// userLocks serializes EnsureValid per user so concurrent requests
	// observing an expired credential perform a single provider exchange.
	mu        sync.Mutex
	userLocks map[int]*sync.Mutex
}

func NewManager(repo Repository, refresher TokenRefresher, clock utils.Clock) *ManagerImpl {
	return &ManagerImpl{
		repo:      repo,
		refresher: refresher,
		clock:     clock,
		userLocks: map[int]*sync.Mutex{},
	}
}

// EnsureValid returns a credential that is usable at call time. A credential
// whose expiry is at or before now is refreshed first; the check is strictly
// point-in-time, so callers must call this immediately before remote use
// rather than caching the result.
func (m *ManagerImpl) EnsureValid(ctx context.Context, userId int) (Credential, error) {
	lock := m.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	cred, err := m.repo.Get(ctx, userId)
	if err != nil {
		return Credential{}, err
	}
	if cred == nil {
		return Credential{}, ErrNotConnected
	}

	now := m.clock.Now()
	if cred.Expiry.After(now) {
		return *cred, nil
	}

	log.Debugf("access token for user %d expired at %v, refreshing", userId, cred.Expiry)
	return m.refresh(ctx, userId, *cred)
}

func (m *ManagerImpl) refresh(ctx context.Context, userId int, cred Credential) (Credential, error) {
	if cred.RefreshToken == "" {
		if _, err := m.repo.Delete(ctx, userId); err != nil {
			return Credential{}, err
		}
		log.Infof("no refresh token stored for user %d, credential removed", userId)
		return Credential{}, fmt.Errorf("%w: no refresh token available", ErrRefreshFailed)
	}

	refreshed, err := m.refresher.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		if _, delErr := m.repo.Delete(ctx, userId); delErr != nil {
			return Credential{}, delErr
		}
		log.Errorf("provider rejected refresh for user %d, credential removed: %v", userId, err)
		return Credential{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	updated, err := m.repo.Patch(ctx, userId, Update{
		AccessToken: &refreshed.AccessToken,
		Expiry:      &refreshed.Expiry,
	})
	if err != nil {
		return Credential{}, err
	}
	if updated == nil {
		return Credential{}, ErrNotConnected
	}

	log.Debugf("refreshed access token for user %d, new expiry %v", userId, updated.Expiry)
	return *updated, nil
}

// Revoke deletes the stored credential unconditionally. It succeeds even if
// no credential existed.
func (m *ManagerImpl) Revoke(ctx context.Context, userId int) error {
	lock := m.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	existed, err := m.repo.Delete(ctx, userId)
	if err != nil {
		return err
	}
	if existed {
		log.Infof("revoked google credential for user %d", userId)
	}
	return nil
}

func (m *ManagerImpl) userLock(userId int) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.userLocks[userId]
	if !ok {
		lock = &sync.Mutex{}
		m.userLocks[userId] = lock
	}
	return lock
}
