package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gormModels "github.com/Bernardstanislas/secretariat/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserNotFound is returned when no users row matches.
var ErrUserNotFound = errors.New("user not found")

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// UpsertSecondaryEmail records email for username, replacing any previous value.
// Addresses are stored lower-cased.
func (r *UserRepositoryGORM) UpsertSecondaryEmail(ctx context.Context, username string, email string) error {
	email = normalizeEmail(email)
	user := gormModels.User{
		Username:       username,
		SecondaryEmail: &email,
		UpdatedAt:      time.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"secondary_email", "updated_at"}),
		}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", username, err)
	}
	return nil
}

// GetBySecondaryEmail retrieves the user who registered email as personal address
func (r *UserRepositoryGORM) GetBySecondaryEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("LOWER(secondary_email) = ?", normalizeEmail(email)).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
