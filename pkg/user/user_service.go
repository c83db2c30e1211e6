package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	EnsureUser(ctx context.Context, username, displayName string) (User, error)
	GetAvailableUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, uid string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	return CurrentUser(ctx)
}

func (s *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	user, err := s.repo.GetUserByUid(ctx, uid)
	if err != nil {
		return User{}, err
	}
	if user == nil {
		return User{}, ErrUserNotFound
	}
	return *user, nil
}

func (s *ServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	user.Uid = uuid.NewString()
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	user.Id = id
	return user, nil
}

// EnsureUser returns the user with the given username, creating one if it
// does not exist yet. Used by the OAuth callback, where the username is the
// Google account email.
func (s *ServiceImpl) EnsureUser(ctx context.Context, username, displayName string) (User, error) {
	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	log.Infof("Creating new user for account %s", username)
	return s.CreateUser(ctx, User{Username: username, DisplayName: displayName})
}

func (s *ServiceImpl) GetAvailableUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *ServiceImpl) DeleteUser(ctx context.Context, uid string) error {
	user, err := s.repo.GetUserByUid(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.repo.DeleteUser(ctx, user.Id)
}
