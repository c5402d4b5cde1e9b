package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ErrTokenNotFound is returned when a token is unknown, expired or already used.
var ErrTokenNotFound = errors.New("login token not found")

type LoginTokenRepo struct {
	db *sqlx.DB
}

func NewLoginTokenRepo(db *sqlx.DB) *LoginTokenRepo {
	return &LoginTokenRepo{db}
}

func (r *LoginTokenRepo) Create(ctx context.Context, t *entities.LoginToken) error {
	_, err := r.db.ExecContext(ctx, constants.InsertLoginToken, t.Token, t.Username, t.Email, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert login token: %w", err)
	}
	return nil
}

// Consume deletes and returns the token if it has not expired at now.
// Concurrent consumers of the same token get at most one row back.
func (r *LoginTokenRepo) Consume(ctx context.Context, token string, now time.Time) (*entities.LoginToken, error) {
	var t entities.LoginToken

	err := r.db.QueryRowxContext(ctx, constants.ConsumeLoginToken, token, now).StructScan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("consume login token: %w", err)
	}
	return &t, nil
}

// PurgeExpired removes tokens that expired at or before now.
func (r *LoginTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, constants.DeleteExpiredLoginTokens, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired login tokens: %w", err)
	}
	return res.RowsAffected()
}
