package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// PostService provides post creation and editing.
type PostService struct {
	posts  repository.PostRepository
	groups repository.GroupRepository
}

// NewPostService returns a new PostService.
func NewPostService(posts repository.PostRepository, groups repository.GroupRepository) *PostService {
	return &PostService{posts: posts, groups: groups}
}

// Create publishes a new post for the author.
func (s *PostService) Create(ctx context.Context, authorID uint, text string, groupID *uint, imageURL string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	if groupID != nil {
		if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
			return nil, models.NewValidationError("Unknown group")
		}
	}

	post := &models.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
		ImageURL: imageURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.posts.GetByID(ctx, post.ID)
}

// Edit updates a post's text, group and image. Only the author may change a
// post; anyone else gets it back unchanged, the same quiet brush-off the edit
// page has always given non-authors. The author never changes.
func (s *PostService) Edit(ctx context.Context, editorID, postID uint, text string, groupID *uint, imageURL string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != editorID {
		return post, nil
	}

	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	if groupID != nil {
		if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
			return nil, models.NewValidationError("Unknown group")
		}
	}

	post.Text = text
	post.GroupID = groupID
	if imageURL != "" {
		post.ImageURL = imageURL
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.posts.GetByID(ctx, postID)
}
