package seed

import (
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	err := s.Run(Options{NumUsers: 5, NumPosts: 20, NumComments: 10})
	require.NoError(t, err)

	var userCount, groupCount, postCount, commentCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)

	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(len(groupDefs)), groupCount)
	assert.Equal(t, int64(20), postCount)
	assert.Equal(t, int64(10), commentCount)

	// Every post belongs to a seeded user; grouped posts point at seeded groups.
	var orphaned int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("author_id NOT IN (?)", db.Model(&models.User{}).Select("id")).
		Count(&orphaned).Error)
	assert.Zero(t, orphaned)

	// No self-follows.
	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}

func TestSeederReseedKeepsGroups(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	_, err := s.ensureGroups()
	require.NoError(t, err)
	again, err := s.ensureGroups()
	require.NoError(t, err)
	assert.Len(t, again, len(groupDefs))

	var groupCount int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	assert.Equal(t, int64(len(groupDefs)), groupCount)
}

func TestClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 3, NumPosts: 5, NumComments: 2}))
	require.NoError(t, s.ClearAll())

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Zero(t, postCount)
}
