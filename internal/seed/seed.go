// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	ShouldClean bool
}

// groupDefs are the built-in groups. They are upserted by slug so reseeding
// keeps existing posts attached.
var groupDefs = []models.Group{
	{Title: "Cats", Slug: "cats", Description: "Posts about cats"},
	{Title: "Dogs", Slug: "dogs", Description: "Posts about dogs"},
	{Title: "Travel", Slug: "travel", Description: "Trip reports and travel notes"},
	{Title: "Cooking", Slug: "cooking", Description: "Recipes and kitchen experiments"},
	{Title: "Technology", Slug: "tech", Description: "Hardware, software and everything between"},
	{Title: "Books", Slug: "books", Description: "Reading recommendations and reviews"},
	{Title: "Music", Slug: "music", Description: "What everyone is listening to"},
}

// Seeder populates the database with generated content.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded content. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds groups, users, posts, comments and follow edges.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users, %d posts, %d comments...", opts.NumUsers, opts.NumPosts, opts.NumComments)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	groups, err := s.ensureGroups()
	if err != nil {
		return fmt.Errorf("seeding groups: %w", err)
	}
	log.Printf("%d groups available", len(groups))

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	log.Printf("%d users created", len(users))

	posts, err := s.createPosts(users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := s.createComments(users, posts, opts.NumComments); err != nil {
		return fmt.Errorf("seeding comments: %w", err)
	}

	if err := s.createFollows(users); err != nil {
		return fmt.Errorf("seeding follows: %w", err)
	}

	return nil
}

func (s *Seeder) ensureGroups() ([]models.Group, error) {
	groups := make([]models.Group, 0, len(groupDefs))
	for _, def := range groupDefs {
		group := def
		err := s.db.Where(models.Group{Slug: def.Slug}).FirstOrCreate(&group).Error
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Bio:      gofakeit.Sentence(10),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Seeder) createUsers(n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// CreatePost constructs and persists a sample post for the given author with
// a created_at spread over the last 90 days.
func (s *Seeder) CreatePost(author *models.User, group *models.Group, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Text:      gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID:  author.ID,
		CreatedAt: s.pastTime(90),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if s.rng.Intn(4) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}
	for _, override := range overrides {
		override(post)
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Seeder) createPosts(users []models.User, groups []models.Group, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]

		// Roughly a third of posts stay ungrouped.
		var group *models.Group
		if s.rng.Intn(3) != 0 {
			group = &groups[s.rng.Intn(len(groups))]
		}

		post, err := s.CreatePost(&author, group)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (s *Seeder) createComments(users []models.User, posts []models.Post, n int) error {
	if len(posts) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		post := posts[s.rng.Intn(len(posts))]
		author := users[s.rng.Intn(len(users))]
		comment := models.Comment{
			Text:      gofakeit.Sentence(s.rng.Intn(12) + 3),
			AuthorID:  author.ID,
			PostID:    post.ID,
			CreatedAt: post.CreatedAt.Add(time.Duration(s.rng.Intn(72)) * time.Hour),
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
	}
	log.Printf("%d comments created", n)
	return nil
}

// createFollows gives each user a handful of subscriptions. Self-follows and
// duplicates are skipped.
func (s *Seeder) createFollows(users []models.User) error {
	if len(users) < 2 {
		return nil
	}

	created := 0
	for _, user := range users {
		for i := 0; i < s.rng.Intn(4); i++ {
			author := users[s.rng.Intn(len(users))]
			if author.ID == user.ID {
				continue
			}
			follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
			err := s.db.Where(models.Follow{UserID: user.ID, AuthorID: author.ID}).
				FirstOrCreate(&follow).Error
			if err != nil {
				return err
			}
			created++
		}
	}
	log.Printf("%d follow edges created", created)
	return nil
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}
