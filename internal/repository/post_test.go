package repository

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepositoryListAllOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "leo")
	created := createTestPosts(t, db, author, nil, 5)

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 5)

	assert.Equal(t, created[4].ID, posts[0].ID, "most recent post comes first")
	assert.Equal(t, created[0].ID, posts[4].ID, "oldest post comes last")
	assert.Equal(t, "leo", posts[0].Author.Username, "author is preloaded")
}

func TestPostRepositoryListByGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "anna")
	cats := createTestGroup(t, db, "cats")
	dogs := createTestGroup(t, db, "dogs")
	createTestPosts(t, db, author, cats, 3)
	createTestPosts(t, db, author, dogs, 2)
	createTestPosts(t, db, author, nil, 1)

	catPosts, err := repo.ListByGroup(ctx, cats.ID)
	require.NoError(t, err)
	assert.Len(t, catPosts, 3)
	for _, p := range catPosts {
		require.NotNil(t, p.GroupID)
		assert.Equal(t, cats.ID, *p.GroupID)
	}

	dogPosts, err := repo.ListByGroup(ctx, dogs.ID)
	require.NoError(t, err)
	assert.Len(t, dogPosts, 2)
}

func TestPostRepositoryListByAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")
	boris := createTestUser(t, db, "boris")
	createTestPosts(t, db, anna, nil, 4)
	createTestPosts(t, db, boris, nil, 2)

	posts, err := repo.ListByAuthor(ctx, anna.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 4)

	count, err := repo.CountByAuthor(ctx, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestPostRepositoryListByFollowedAuthors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")
	boris := createTestUser(t, db, "boris")
	carol := createTestUser(t, db, "carol")
	annaPosts := createTestPosts(t, db, anna, nil, 2)
	createTestPosts(t, db, boris, nil, 3)

	// carol follows anna only
	require.NoError(t, db.Create(&models.Follow{UserID: carol.ID, AuthorID: anna.ID}).Error)

	feed, err := repo.ListByFollowedAuthors(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, annaPosts[1].ID, feed[0].ID)
	assert.Equal(t, annaPosts[0].ID, feed[1].ID)

	// boris follows nobody
	feed, err = repo.ListByFollowedAuthors(ctx, boris.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestPostRepositoryGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepositoryUpdateKeepsAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")
	group := createTestGroup(t, db, "cats")
	post := createTestPosts(t, db, anna, nil, 1)[0]

	post.Text = "edited"
	post.GroupID = &group.ID
	require.NoError(t, repo.Update(ctx, &post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.Equal(t, anna.ID, got.AuthorID)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, group.ID, *got.GroupID)
}
