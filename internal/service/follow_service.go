package service

import (
	"context"
	"errors"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// FollowSummary is returned from follow mutations so the profile page can
// refresh its follow button and counter without another round trip.
type FollowSummary struct {
	Username       string `json:"username"`
	Following      bool   `json:"following"`
	FollowersCount int64  `json:"followers_count"`
}

// FollowService manages the follow edges between users.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow subscribes userID to the author named by username. Following
// yourself or an author you already follow is a no-op, not an error; a
// concurrent duplicate insert loses against the unique constraint and is
// treated the same way.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (*FollowSummary, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if author.ID != userID {
		exists, err := s.follows.IsFollowing(ctx, userID, author.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			err = s.follows.Create(ctx, &models.Follow{UserID: userID, AuthorID: author.ID})
			if err != nil && !errors.Is(err, repository.ErrAlreadyFollowing) {
				return nil, err
			}
		}
	}

	return s.summary(ctx, userID, author)
}

// Unfollow removes userID's edge to the author named by username. Removing
// an edge that does not exist is a NotFound, leaving the store unchanged.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (*FollowSummary, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.follows.Delete(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundError("Follow", username)
	}

	return s.summary(ctx, userID, author)
}

func (s *FollowService) summary(ctx context.Context, userID uint, author *models.User) (*FollowSummary, error) {
	following, err := s.follows.IsFollowing(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	return &FollowSummary{
		Username:       author.Username,
		Following:      following,
		FollowersCount: followers,
	}, nil
}
