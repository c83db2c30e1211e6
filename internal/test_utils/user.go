package test_utils

import (
	"context"

	"github.com/kalendo/kalendo/pkg/user"
)

type TestUserProvider struct{}

func (p TestUserProvider) GetCurrentUser(ctx context.Context) (user.User, error) {
	return user.User{
		Id:          123,
		Uid:         "test-user-uid",
		Username:    "test_user",
		DisplayName: "Test User",
		Timezone:    "Europe/Warsaw",
	}, nil
}

// WithTestUser puts the standard test user into the context.
func WithTestUser(ctx context.Context) context.Context {
	u, _ := TestUserProvider{}.GetCurrentUser(ctx)
	return user.WithUser(ctx, u)
}
