package user

import (
	"context"
	"sort"
)

type StubUserRepo struct {
	users  map[int]User
	nextId int
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{users: map[int]User{}, nextId: 1}
}

func (r *StubUserRepo) CreateUser(ctx context.Context, user User) (int, error) {
	user.Id = r.nextId
	r.nextId++
	r.users[user.Id] = user
	return user.Id, nil
}

func (r *StubUserRepo) GetUser(ctx context.Context, id int) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *StubUserRepo) GetUserByUid(ctx context.Context, uid string) (*User, error) {
	for _, user := range r.users {
		if user.Uid == uid {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *StubUserRepo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *StubUserRepo) GetAllUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Id < users[j].Id })
	return users, nil
}

func (r *StubUserRepo) DeleteUser(ctx context.Context, id int) error {
	delete(r.users, id)
	return nil
}
