package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/ports"
)

// DefaultAvatarMaxBytes caps the size of a stored avatar data URL.
const DefaultAvatarMaxBytes = 512 * 1024

// AvatarServiceOptions groups dependencies for AvatarService.
type AvatarServiceOptions struct {
	Store    ports.AvatarStore // required
	MaxBytes int
	Now      func() time.Time
}

// AvatarService stores one profile image per role and user.
type AvatarService struct {
	store    ports.AvatarStore
	maxBytes int
	now      func() time.Time
}

// NewAvatarService constructs an AvatarService.
func NewAvatarService(opts AvatarServiceOptions) *AvatarService {
	if opts.Store == nil {
		panic("AvatarStore is required")
	}
	s := &AvatarService{store: opts.Store, maxBytes: opts.MaxBytes, now: opts.Now}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultAvatarMaxBytes
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// MaxBytes reports the configured size limit.
func (s *AvatarService) MaxBytes() int { return s.maxBytes }

// TooLarge is the error for a data URL over the size limit.
func (s *AvatarService) TooLarge() error {
	return apperrors.Validationf("avatar must be at most %d bytes", s.maxBytes).WithField("data_url")
}

// Put stores dataURL as the avatar for the session's user.
func (s *AvatarService) Put(ctx context.Context, sess domainauth.Session, dataURL string) (model.Avatar, error) {
	dataURL = strings.TrimSpace(dataURL)
	switch {
	case dataURL == "":
		return model.Avatar{}, apperrors.ValidationField("data_url", "an image is required")
	case !strings.HasPrefix(dataURL, model.AvatarDataURLPrefix):
		return model.Avatar{}, apperrors.ValidationField("data_url", "avatar must be an image data URL")
	case len(dataURL) > s.maxBytes:
		return model.Avatar{}, s.TooLarge()
	}

	av := model.Avatar{
		Role:      sess.Role,
		UserID:    sess.UserID,
		DataURL:   dataURL,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, av); err != nil {
		return model.Avatar{}, fmt.Errorf("save avatar: %w", apperrors.MapStoreError(err))
	}
	return av, nil
}

// Get returns the session user's avatar.
func (s *AvatarService) Get(ctx context.Context, sess domainauth.Session) (model.Avatar, error) {
	av, err := s.store.Get(ctx, sess.Role, sess.UserID)
	if err != nil {
		if errors.Is(err, ports.ErrAvatarNotFound) {
			return model.Avatar{}, apperrors.NotFound("no avatar uploaded")
		}
		return model.Avatar{}, fmt.Errorf("get avatar: %w", apperrors.MapStoreError(err))
	}
	return av, nil
}

// Delete removes the session user's avatar; deleting a missing avatar succeeds.
func (s *AvatarService) Delete(ctx context.Context, sess domainauth.Session) error {
	if err := s.store.Delete(ctx, sess.Role, sess.UserID); err != nil {
		return fmt.Errorf("delete avatar: %w", apperrors.MapStoreError(err))
	}
	return nil
}
