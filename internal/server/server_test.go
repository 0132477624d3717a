package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServer struct {
	app *fiber.App
	srv *Server
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func setupTestServer(t *testing.T) *testServer {
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

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{JWTSecret: "test-secret-key", Port: "8080", Env: "test"}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	srv := &Server{
		config:    cfg,
		db:        db,
		redis:     rdb,
		pageCache: cache.NewPageCache(rdb, cache.DefaultIndexTTL),
		users:     userRepo,
		listing:   service.NewListingService(postRepo, groupRepo, commentRepo, userRepo, followRepo),
		postSvc:   service.NewPostService(postRepo, groupRepo),
		comments:  service.NewCommentService(commentRepo, postRepo),
		follows:   service.NewFollowService(followRepo, userRepo),
	}

	app := fiber.New()
	srv.SetupRoutes(app)

	return &testServer{app: app, srv: srv, db: db, mr: mr}
}

// signupUser registers a user through the API and returns the bearer token
// and user ID.
func (ts *testServer) signupUser(t *testing.T, username string) (string, uint) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	resp := ts.do(t, "POST", "/api/auth/signup", body, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var auth AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.User.ID
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// createStoredPosts inserts posts directly into the store with strictly
// increasing timestamps, bypassing the API and its page cache.
func (ts *testServer) createStoredPosts(t *testing.T, authorID uint, groupID *uint, n int) []models.Post {
	t.Helper()

	base := time.Now().Add(-time.Duration(n) * time.Minute)
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := models.Post{
			Text:      fmt.Sprintf("stored post %d", i+1),
			AuthorID:  authorID,
			GroupID:   groupID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, ts.db.Create(&post).Error)
		posts = append(posts, post)
	}
	return posts
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	_ = resp.Body.Close()
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return body
}
