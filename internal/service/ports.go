package service

import (
	"context"

	"github.com/gunnishmehta/youtube-backend/internal/dto"
	"github.com/gunnishmehta/youtube-backend/internal/model"
)

// The service layer talks to storage through these interfaces; the GORM
// repositories in internal/repository satisfy them, and tests swap in
// in-memory fakes. Not-found is signalled with gorm.ErrRecordNotFound.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateAccount(ctx context.Context, id uint, fullName, email string) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateAvatar(ctx context.Context, id uint, url string) error
	UpdateCoverImage(ctx context.Context, id uint, url string) error
	UpdateRefreshToken(ctx context.Context, id uint, refreshToken string) error
	SwapRefreshToken(ctx context.Context, id uint, oldToken, newToken string) (bool, error)
	AppendWatchHistory(ctx context.Context, id uint, videoID uint) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID uint) error
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id uint) (*model.Video, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.Video, error)
}

// MediaUploader pushes a local file to remote media storage and returns its
// public URL. Single attempt; a failed upload is reported, never retried.
type MediaUploader interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

// ProfileCache is the read-through cache in front of channel profile reads.
// Implementations must degrade silently: a miss and a cache failure look the
// same to the caller.
type ProfileCache interface {
	GetChannelProfile(ctx context.Context, key string) (*dto.ChannelProfileResponse, bool)
	SetChannelProfile(ctx context.Context, key string, profile *dto.ChannelProfileResponse)
	InvalidateChannelProfile(ctx context.Context, key string)
}

// toUserResponse projects a user record onto its public shape. Password and
// refresh token are dropped here, before anything can serialize them.
func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
