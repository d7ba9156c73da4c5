package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gunnishmehta/youtube-backend/internal/constants"
	"github.com/gunnishmehta/youtube-backend/internal/dto"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/model"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProfileService answers the read-side queries: channel profiles with their
// subscription counts and the viewer's enriched watch history. Channel
// profile reads go through the cache; everything else hits storage directly.
type ProfileService struct {
	users  UserRepository
	subs   SubscriptionRepository
	videos VideoRepository
	media  MediaUploader
	cache  ProfileCache
}

func NewProfileService(users UserRepository, subs SubscriptionRepository, videos VideoRepository, media MediaUploader, cache ProfileCache) *ProfileService {
	return &ProfileService{
		users:  users,
		subs:   subs,
		videos: videos,
		media:  media,
		cache:  cache,
	}
}

func channelCacheKey(username string, viewerID uint) string {
	return fmt.Sprintf("%s%s:viewer:%d", constants.CacheKeyChannel, strings.ToLower(username), viewerID)
}

// GetChannelProfile resolves a channel by username and decorates it with
// subscriber counts and the viewer's subscription state
func (s *ProfileService) GetChannelProfile(ctx context.Context, viewerID uint, username string) (*dto.ChannelProfileResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "GetChannelProfile")

	if strings.TrimSpace(username) == "" {
		return nil, apperrors.ErrUsernameRequired
	}

	key := channelCacheKey(username, viewerID)
	if cached, ok := s.cache.GetChannelProfile(ctx, key); ok {
		logger.DebugWithContext(ctx, "Channel profile cache hit").
			String("username", username).
			Log()
		return cached, nil
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	subscribers, err := s.subs.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	subscribedTo, err := s.subs.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	isSubscribed, err := s.subs.IsSubscribed(ctx, viewerID, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	profile := &dto.ChannelProfileResponse{
		FullName:                  channel.FullName,
		Username:                  channel.Username,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribedTo:            isSubscribed,
		Avatar:                    channel.Avatar,
		CoverImage:                channel.CoverImage,
		Email:                     channel.Email,
	}

	s.cache.SetChannelProfile(ctx, key, profile)

	return profile, nil
}

// ToggleSubscription subscribes the viewer to the channel, or unsubscribes
// if already subscribed. Returns the resulting subscription state. The
// viewer's own cached profile of the channel is invalidated so their next
// read reflects the flip; other viewers' entries age out with the TTL.
func (s *ProfileService) ToggleSubscription(ctx context.Context, viewerID uint, username string) (bool, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "ToggleSubscription")

	if strings.TrimSpace(username) == "" {
		return false, apperrors.ErrUsernameRequired
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrChannelNotFound
		}
		return false, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	subscribed, err := s.subs.IsSubscribed(ctx, viewerID, channel.ID)
	if err != nil {
		return false, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if subscribed {
		if err := s.subs.Delete(ctx, viewerID, channel.ID); err != nil {
			return false, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	} else {
		if err := s.subs.Create(ctx, &model.Subscription{
			SubscriberID: viewerID,
			ChannelID:    channel.ID,
		}); err != nil {
			return false, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	s.cache.InvalidateChannelProfile(ctx, channelCacheKey(username, viewerID))

	logger.InfoWithContext(ctx, "Subscription toggled").
		Uint("subscriber_id", viewerID).
		Uint("channel_id", channel.ID).
		Bool("subscribed", !subscribed).
		Log()

	return !subscribed, nil
}

// GetWatchHistory returns the viewer's watch history, oldest first, with
// each video carrying its collapsed owner projection. Ids whose video no
// longer exists are skipped.
func (s *ProfileService) GetWatchHistory(ctx context.Context, userID uint) ([]dto.WatchHistoryEntry, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "GetWatchHistory")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	history := make([]dto.WatchHistoryEntry, 0, len(user.WatchHistory))
	if len(user.WatchHistory) == 0 {
		return history, nil
	}

	videos, err := s.videos.GetByIDs(ctx, user.WatchHistory)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	byID := make(map[uint]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}

	// The stored id list defines the order, not the batch fetch
	for _, id := range user.WatchHistory {
		video, ok := byID[id]
		if !ok {
			continue
		}
		history = append(history, toWatchHistoryEntry(video))
	}

	return history, nil
}

// Media storage folders for published videos
const (
	videoFolder     = "videos"
	thumbnailFolder = "thumbnails"
)

// PublishVideo uploads the video file and thumbnail and creates the video
// record owned by the publisher. Both files are mandatory.
func (s *ProfileService) PublishVideo(ctx context.Context, ownerID uint, req *dto.PublishVideoRequest, videoPath, thumbnailPath string) (*dto.WatchHistoryEntry, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "PublishVideo")

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.ErrFieldsRequired
	}
	if videoPath == "" {
		return nil, apperrors.ErrVideoFileRequired
	}
	if thumbnailPath == "" {
		return nil, apperrors.ErrThumbnailRequired
	}

	videoURL, err := s.media.Upload(ctx, videoPath, videoFolder)
	if err != nil || videoURL == "" {
		return nil, apperrors.WrapError(apperrors.ErrVideoUpload, err)
	}

	thumbnailURL, err := s.media.Upload(ctx, thumbnailPath, thumbnailFolder)
	if err != nil || thumbnailURL == "" {
		return nil, apperrors.WrapError(apperrors.ErrVideoUpload, err)
	}

	video := &model.Video{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    req.Duration,
		IsPublished: true,
		OwnerID:     ownerID,
	}

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Video published").
		Uint("video_id", video.ID).
		Uint("owner_id", ownerID).
		Log()

	full, err := s.videos.GetByID(ctx, video.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	entry := toWatchHistoryEntry(full)
	return &entry, nil
}

// WatchVideo fetches a video for playback and records it in the viewer's
// watch history. A history write failure does not fail the fetch.
func (s *ProfileService) WatchVideo(ctx context.Context, viewerID, videoID uint) (*dto.WatchHistoryEntry, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "WatchVideo")

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.AppendWatchHistory(ctx, viewerID, videoID); err != nil {
		logger.WarnWithContext(ctx, "Failed to record watch history").
			Uint("user_id", viewerID).
			Uint("video_id", videoID).
			Err(err).
			Log()
	}

	entry := toWatchHistoryEntry(video)
	return &entry, nil
}

func toWatchHistoryEntry(video *model.Video) dto.WatchHistoryEntry {
	return dto.WatchHistoryEntry{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		Views:       video.Views,
		Owner: dto.VideoOwner{
			FullName: video.Owner.FullName,
			Username: video.Owner.Username,
			Avatar:   video.Owner.Avatar,
		},
	}
}
