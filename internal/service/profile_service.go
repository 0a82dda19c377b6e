package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
)

// ProfileCache caches public profile payloads. Satisfied by
// persistence.Redis; a nil cache disables caching.
type ProfileCache interface {
	GetCached(ctx context.Context, key string) ([]byte, error)
	SetCached(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context, key string) error
}

// PublicProfile is the subset of a user record anyone may see.
type PublicProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileService serves profile reads and self-service mutations.
type ProfileService struct {
	users  repository.UserRepository
	cache  ProfileCache
	logger *zap.Logger
}

// NewProfileService builds the service.
func NewProfileService(users repository.UserRepository, cache ProfileCache, logger *zap.Logger) *ProfileService {
	return &ProfileService{users: users, cache: cache, logger: logger}
}

// GetByID returns the full record for the given user.
func (s *ProfileService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure("lookup user", err)
	}
	return user, nil
}

// UpdateProfile applies the caller's profile changes. Nil fields are
// left untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, name *string, whatsappNumber *string) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}
	if whatsappNumber != nil {
		user.WhatsappNumber = whatsappNumber
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure("update profile", err)
	}

	s.invalidateProfile(ctx, id)
	return user, nil
}

// DeleteAccount removes the caller's record.
func (s *ProfileService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return storeFailure("delete user", err)
	}
	s.invalidateProfile(ctx, id)
	return nil
}

// GetPublicProfile returns the public view of any user, served from the
// cache when possible. A cache failure falls through to the store.
func (s *ProfileService) GetPublicProfile(ctx context.Context, id string) (*PublicProfile, error) {
	key := profileCacheKey(id)
	if s.cache != nil {
		if payload, err := s.cache.GetCached(ctx, key); err == nil {
			var profile PublicProfile
			if json.Unmarshal(payload, &profile) == nil {
				return &profile, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("profile cache read failed", zap.Error(err))
		}
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{ID: user.ID, Name: user.Name, CreatedAt: user.CreatedAt}
	if s.cache != nil {
		if payload, err := json.Marshal(profile); err == nil {
			if err := s.cache.SetCached(ctx, key, payload); err != nil {
				s.logger.Warn("profile cache write failed", zap.Error(err))
			}
		}
	}
	return profile, nil
}

func (s *ProfileService) invalidateProfile(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, profileCacheKey(id)); err != nil {
		s.logger.Warn("profile cache invalidation failed", zap.Error(err))
	}
}

func profileCacheKey(id string) string {
	return "profile:" + id
}
