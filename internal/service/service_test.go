package service

import (
	"fmt"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return &testEnv{
		db:       db,
		posts:    repository.NewPostRepository(db),
		groups:   repository.NewGroupRepository(db),
		comments: repository.NewCommentRepository(db),
		users:    repository.NewUserRepository(db),
		follows:  repository.NewFollowRepository(db),
	}
}

func (e *testEnv) listing() *ListingService {
	return NewListingService(e.posts, e.groups, e.comments, e.users, e.follows)
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: "Group " + slug, Slug: slug}
	if err := e.db.Create(group).Error; err != nil {
		t.Fatalf("Failed to create group %s: %v", slug, err)
	}
	return group
}

func (e *testEnv) createPosts(t *testing.T, author *models.User, group *models.Group, n int) []models.Post {
	t.Helper()

	base := time.Now().Add(-time.Duration(n) * time.Minute)
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := models.Post{
			Text:      fmt.Sprintf("post %d by %s", i+1, author.Username),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if group != nil {
			post.GroupID = &group.ID
		}
		if err := e.db.Create(&post).Error; err != nil {
			t.Fatalf("Failed to create post: %v", err)
		}
		posts = append(posts, post)
	}
	return posts
}

func (e *testEnv) followCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	if err := e.db.Model(&models.Follow{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count follows: %v", err)
	}
	return count
}
