package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	"github.com/target/campus-portal/internal/ports"
)

// DefaultAvatarPrefix namespaces avatar keys.
const DefaultAvatarPrefix = "avatar:"

// AvatarStore persists avatars under avatar:{role}:{user} with no expiry.
type AvatarStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.AvatarStore = (*AvatarStore)(nil)

// NewAvatarStore creates an avatar store using DefaultAvatarPrefix.
func NewAvatarStore(client redis.UniversalClient) *AvatarStore {
	return &AvatarStore{client: client, prefix: DefaultAvatarPrefix}
}

func (a *AvatarStore) key(role domainauth.Role, userID string) string {
	return a.prefix + string(role) + ":" + userID
}

func (a *AvatarStore) Put(ctx context.Context, avatar model.Avatar) error {
	if !avatar.Role.Valid() || avatar.UserID == "" {
		return errors.New("avatar requires a valid role and user ID")
	}
	data, err := json.Marshal(avatar)
	if err != nil {
		return fmt.Errorf("marshal avatar: %w", err)
	}
	if err := a.client.Set(ctx, a.key(avatar.Role, avatar.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set avatar: %w", err)
	}
	return nil
}

func (a *AvatarStore) Get(ctx context.Context, role domainauth.Role, userID string) (model.Avatar, error) {
	data, err := a.client.Get(ctx, a.key(role, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Avatar{}, ports.ErrAvatarNotFound
		}
		return model.Avatar{}, fmt.Errorf("redis get avatar: %w", err)
	}
	var avatar model.Avatar
	if err := json.Unmarshal(data, &avatar); err != nil {
		return model.Avatar{}, fmt.Errorf("unmarshal avatar: %w", err)
	}
	return avatar, nil
}

func (a *AvatarStore) Delete(ctx context.Context, role domainauth.Role, userID string) error {
	return a.client.Del(ctx, a.key(role, userID)).Err()
}
