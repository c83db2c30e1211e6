package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (*User, error)
	GetUserByUid(ctx context.Context, uid string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id int) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	timezone := user.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	query := "INSERT INTO users (uid, username, display_name, timezone) VALUES ($1, $2, $3, $4) RETURNING id"

	var id int
	err := r.db.QueryRowContext(ctx, query, user.Uid, user.Username, user.DisplayName, timezone).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not create user: %w", err)
		log.Error(err)
		return 0, err
	}

	return id, nil
}

func (r *RepoImpl) GetUser(ctx context.Context, id int) (*User, error) {
	query := "SELECT id, uid, username, display_name, timezone FROM users WHERE id = $1"
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *RepoImpl) GetUserByUid(ctx context.Context, uid string) (*User, error) {
	query := "SELECT id, uid, username, display_name, timezone FROM users WHERE uid = $1"
	return r.scanUser(r.db.QueryRowContext(ctx, query, uid))
}

func (r *RepoImpl) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := "SELECT id, uid, username, display_name, timezone FROM users WHERE username = $1"
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *RepoImpl) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.Id, &user.Uid, &user.Username, &user.DisplayName, &user.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		err := fmt.Errorf("could not scan user: %w", err)
		log.Error(err)
		return nil, err
	}
	return &user, nil
}

func (r *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := "SELECT id, uid, username, display_name, timezone FROM users ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0, 4)
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.Id, &user.Uid, &user.Username, &user.DisplayName, &user.Timezone); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *RepoImpl) DeleteUser(ctx context.Context, id int) error {
	query := "DELETE FROM users WHERE id = $1"
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not delete user: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
