package service

import (
	"context"
	"errors"
	"time"

	"threadchat/internal/cache"
	apperrors "threadchat/internal/errors"
	"threadchat/internal/model"
	"threadchat/internal/repository"
)

const defaultUserCacheTTL = 5 * time.Minute

// UserService exposes read access to accounts.
type UserService interface {
	GetCurrentUser(ctx context.Context, id string) (*model.Profile, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService with repository and cache. A zero ttl
// uses the default of five minutes.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = defaultUserCacheTTL
	}
	return &userService{repo: repo, cache: cache, ttl: ttl}
}

func (s *userService) cacheKey(id string) string {
	return "user:" + id
}

func (s *userService) GetCurrentUser(ctx context.Context, id string) (*model.Profile, error) {
	var cached model.Profile
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	profile := user.Profile()
	s.cache.SetJSON(ctx, s.cacheKey(id), profile, s.ttl)
	return &profile, nil
}
