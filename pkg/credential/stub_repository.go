package credential

import (
	"context"
	"sync"
)

type StubRepository struct {
	mu    sync.Mutex
	creds map[int]Credential
}

func NewStubRepository() *StubRepository {
	return &StubRepository{creds: map[int]Credential{}}
}

func (r *StubRepository) Get(ctx context.Context, userId int) (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.creds[userId]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (r *StubRepository) Store(ctx context.Context, cred Credential) (Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cred.TokenType == "" {
		cred.TokenType = "Bearer"
	}
	r.creds[cred.UserId] = cred
	return cred, nil
}

func (r *StubRepository) Patch(ctx context.Context, userId int, update Update) (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.creds[userId]
	if !ok {
		return nil, nil
	}
	if update.AccessToken != nil {
		existing.AccessToken = *update.AccessToken
	}
	if update.RefreshToken != nil {
		existing.RefreshToken = *update.RefreshToken
	}
	if update.Expiry != nil {
		existing.Expiry = *update.Expiry
	}
	r.creds[userId] = existing
	return &existing, nil
}

func (r *StubRepository) Delete(ctx context.Context, userId int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.creds[userId]
	delete(r.creds, userId)
	return ok, nil
}
