package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/face-lock-service/internal/domain"
)

// ErrProfileNotFound is returned when no profile is cached for a subject.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository caches the optional profile fields accepted at
// enrollment. The cache is best-effort: the matching engine remains the
// system of record for who is enrolled.
type ProfileRepository interface {
	Save(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type profileRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileRepository returns a Redis-backed implementation.
func NewProfileRepository(client *redis.Client, ttl time.Duration) ProfileRepository {
	return &profileRepository{client: client, ttl: ttl}
}

func profileKey(userID string) string {
	return "profile:" + userID
}

func (r *profileRepository) Save(ctx context.Context, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, profileKey(user.UserID), payload, r.ttl).Err()
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.User, error) {
	payload, err := r.client.Get(ctx, profileKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, profileKey(userID)).Err()
}
