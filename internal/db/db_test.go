package db_test

import (
	"errors"
	"testing"

	"penhub/internal/config"
	"penhub/internal/db"
	"penhub/internal/db/dbtest"
	"penhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestOpenSQLiteSeedsGroupsOnce(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    "file:" + t.TempDir() + "/penhub.db",
		SeedGroups:     true,
	}

	conn, err := db.Open(cfg, zap.NewNop())
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Group{}).Count(&count).Error)
	assert.Equal(t, int64(len(db.DefaultGroups)), count)

	require.NoError(t, db.SeedGroups(conn, zap.NewNop()))
	require.NoError(t, conn.Model(&models.Group{}).Count(&count).Error)
	assert.Equal(t, int64(len(db.DefaultGroups)), count)
}

func TestMigrateCreatesFollowPairIndex(t *testing.T) {
	conn := dbtest.Open(t)
	assert.True(t, conn.Migrator().HasIndex(&models.Follow{}, "idx_follow_pair"))
}

func TestSeedGroupsLogsOnlySuccessfulInserts(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, conn.Callback().Create().Before("gorm:create").Register("fail_life", func(tx *gorm.DB) {
		if g, ok := tx.Statement.Dest.(*models.Group); ok && g.Slug == "life" {
			_ = tx.AddError(errors.New("insert refused"))
		}
	}))

	core, logs := observer.New(zapcore.DebugLevel)
	require.NoError(t, db.SeedGroups(conn, zap.New(core)))

	assert.Equal(t, 1, logs.FilterMessage("Failed to create group").Len())
	created := logs.FilterMessage("Initial groups created").All()
	require.Len(t, created, 1)
	fields := created[0].ContextMap()
	assert.EqualValues(t, len(db.DefaultGroups)-1, fields["count"])
	assert.EqualValues(t, len(db.DefaultGroups), fields["total"])
}

func TestMigrateBackfillsSearchText(t *testing.T) {
	conn := dbtest.Open(t)
	user := &models.User{Username: "ivan", Password: "x"}
	require.NoError(t, conn.Create(user).Error)
	require.NoError(t, conn.Exec(
		"INSERT INTO posts (user_id, text, search_text, image, created_at, updated_at) VALUES (?, ?, '', '', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		user.ID, "Тестовый Пост").Error)

	require.NoError(t, db.Migrate(conn))

	var post models.Post
	require.NoError(t, conn.First(&post).Error)
	assert.Equal(t, "тестовый пост", post.SearchText)
}
