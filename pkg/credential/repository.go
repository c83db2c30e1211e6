package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Repository persists credentials, one row per user. Get and Patch return nil
// (not an error) when no credential is stored for the user.
type Repository interface {
	Get(ctx context.Context, userId int) (*Credential, error)
	Store(ctx context.Context, cred Credential) (Credential, error)
	Patch(ctx context.Context, userId int, update Update) (*Credential, error)
	Delete(ctx context.Context, userId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int) (*Credential, error) {
	query := "SELECT user_id, access_token, refresh_token, expiry, token_type FROM google_credentials WHERE user_id = $1"

	var cred Credential
	var expiryUnix int64
	err := r.db.QueryRowContext(ctx, query, userId).
		Scan(&cred.UserId, &cred.AccessToken, &cred.RefreshToken, &expiryUnix, &cred.TokenType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		err := fmt.Errorf("could not retrieve credential: %w", err)
		log.Error(err)
		return nil, err
	}
	cred.Expiry = time.Unix(expiryUnix, 0)
	return &cred, nil
}

// Store replaces any existing credential for the user.
func (r *RepositoryImpl) Store(ctx context.Context, cred Credential) (Credential, error) {
	tokenType := cred.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	query := `INSERT INTO google_credentials (user_id, access_token, refresh_token, expiry, token_type)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (user_id) DO UPDATE SET
					access_token = excluded.access_token,
					refresh_token = excluded.refresh_token,
					expiry = excluded.expiry,
					token_type = excluded.token_type`

	_, err := r.db.ExecContext(ctx, query, cred.UserId, cred.AccessToken, cred.RefreshToken, cred.Expiry.Unix(), tokenType)
	if err != nil {
		err := fmt.Errorf("could not store credential: %w", err)
		log.Error(err)
		return Credential{}, err
	}
	cred.TokenType = tokenType
	return cred, nil
}

func (r *RepositoryImpl) Patch(ctx context.Context, userId int, update Update) (*Credential, error) {
	existing, err := r.Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	if existing == nil {
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

	query := "UPDATE google_credentials SET access_token = $1, refresh_token = $2, expiry = $3 WHERE user_id = $4"
	_, err = r.db.ExecContext(ctx, query, existing.AccessToken, existing.RefreshToken, existing.Expiry.Unix(), userId)
	if err != nil {
		err := fmt.Errorf("could not update credential: %w", err)
		log.Error(err)
		return nil, err
	}
	return existing, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int) (bool, error) {
	query := "DELETE FROM google_credentials WHERE user_id = $1"
	result, err := r.db.ExecContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not delete credential: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not read affected rows: %w", err)
		log.Error(err)
		return false, err
	}
	return affected > 0, nil
}
