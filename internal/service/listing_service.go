// Package service contains the business logic between HTTP handlers and
// the repositories.
package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// GroupPage is the view model for a group's listing page.
type GroupPage struct {
	Group *models.Group                `json:"group"`
	Page  pagination.Page[models.Post] `json:"page"`
}

// ProfilePage is the view model for an author's profile page.
type ProfilePage struct {
	Author         *models.User                 `json:"author"`
	Page           pagination.Page[models.Post] `json:"page"`
	PostsCount     int64                        `json:"posts_count"`
	FollowersCount int64                        `json:"followers_count"`
	FollowingCount int64                        `json:"following_count"`
	Following      bool                         `json:"following"`
}

// PostDetail is the view model for a single post's page.
type PostDetail struct {
	Post             *models.Post     `json:"post"`
	Comments         []models.Comment `json:"comments"`
	AuthorPostsCount int64            `json:"author_posts_count"`
}

// ListingService composes the paginated view models for every listing page.
type ListingService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
	pageSize int
}

// NewListingService returns a new ListingService.
func NewListingService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
) *ListingService {
	return &ListingService{
		posts:    posts,
		groups:   groups,
		comments: comments,
		users:    users,
		follows:  follows,
		pageSize: pagination.DefaultPageSize,
	}
}

// BuildIndex returns the requested page of all posts, newest first.
func (s *ListingService) BuildIndex(ctx context.Context, rawPage string) (pagination.Page[models.Post], error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return pagination.Page[models.Post]{}, err
	}
	return pagination.Paginate(posts, s.pageSize, rawPage), nil
}

// BuildGroup resolves a group by slug and returns its paginated posts.
func (s *ListingService) BuildGroup(ctx context.Context, slug, rawPage string) (*GroupPage, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	return &GroupPage{
		Group: group,
		Page:  pagination.Paginate(posts, s.pageSize, rawPage),
	}, nil
}

// BuildProfile resolves an author by username and returns their paginated
// posts together with follower counts and whether the viewer follows them.
// viewerID is zero for anonymous viewers, which always reads as not following.
func (s *ListingService) BuildProfile(ctx context.Context, username string, viewerID uint, rawPage string) (*ProfilePage, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	followingCount, err := s.follows.CountFollowing(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 {
		following, err = s.follows.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ProfilePage{
		Author:         author,
		Page:           pagination.Paginate(posts, s.pageSize, rawPage),
		PostsCount:     int64(len(posts)),
		FollowersCount: followers,
		FollowingCount: followingCount,
		Following:      following,
	}, nil
}

// BuildPostDetail resolves a post and returns it with its comments
// (oldest first) and the author's total post count.
func (s *ListingService) BuildPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorPosts, err := s.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: authorPosts,
	}, nil
}

// BuildFollowFeed returns the requested page of posts by authors the viewer
// follows. Callers must pass an authenticated viewer.
func (s *ListingService) BuildFollowFeed(ctx context.Context, viewerID uint, rawPage string) (pagination.Page[models.Post], error) {
	posts, err := s.posts.ListByFollowedAuthors(ctx, viewerID)
	if err != nil {
		return pagination.Page[models.Post]{}, err
	}
	return pagination.Paginate(posts, s.pageSize, rawPage), nil
}
