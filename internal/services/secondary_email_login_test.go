package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/db/repositories"
	gormModels "github.com/Bernardstanislas/secretariat/internal/models/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestResolveLogin_MixedCaseSecondaryEmailFromOnboarding(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&gormModels.User{}))
	users := repositories.NewUserRepositoryGORM(db)
	ctx := context.Background()

	require.NoError(t, users.UpsertSecondaryEmail(ctx, "marie.curie", "Marie.Curie@Example.org"))

	d := NewDirectoryService(&mockMembersSource{members: testMembers()}, common.NewCacheService(600, 1200), users, nil, "beta.gouv.fr")
	for _, email := range []string{"Marie.Curie@Example.org", "marie.curie@example.org"} {
		username, err := d.ResolveLogin(ctx, email)
		require.NoError(t, err, email)
		assert.Equal(t, "marie.curie", username)
	}
}
