package memory

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	"github.com/target/campus-portal/internal/ports"
)

type avatarKey struct {
	role   domainauth.Role
	userID string
}

// AvatarStore keeps avatars keyed by role and user.
type AvatarStore struct {
	mu      sync.RWMutex
	avatars map[avatarKey]model.Avatar
}

var _ ports.AvatarStore = (*AvatarStore)(nil)

// NewAvatarStore creates an empty store.
func NewAvatarStore() *AvatarStore {
	return &AvatarStore{avatars: make(map[avatarKey]model.Avatar)}
}

func (a *AvatarStore) Put(_ context.Context, avatar model.Avatar) error {
	if !avatar.Role.Valid() || avatar.UserID == "" {
		return errors.New("avatar requires a valid role and user ID")
	}
	a.mu.Lock()
	a.avatars[avatarKey{avatar.Role, avatar.UserID}] = avatar
	a.mu.Unlock()
	return nil
}

func (a *AvatarStore) Get(_ context.Context, role domainauth.Role, userID string) (model.Avatar, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	avatar, ok := a.avatars[avatarKey{role, userID}]
	if !ok {
		return model.Avatar{}, ports.ErrAvatarNotFound
	}
	return avatar, nil
}

func (a *AvatarStore) Delete(_ context.Context, role domainauth.Role, userID string) error {
	a.mu.Lock()
	delete(a.avatars, avatarKey{role, userID})
	a.mu.Unlock()
	return nil
}
