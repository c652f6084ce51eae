package ports

import (
	"context"
	"errors"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
)

// ErrAvatarNotFound is returned when no avatar is stored for a role/user pair.
var ErrAvatarNotFound = errors.New("avatar not found")

// AvatarStore keeps one avatar per role and user.
type AvatarStore interface {
	Put(ctx context.Context, avatar model.Avatar) error
	Get(ctx context.Context, role domainauth.Role, userID string) (model.Avatar, error)
	Delete(ctx context.Context, role domainauth.Role, userID string) error
}
