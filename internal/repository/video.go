package repository

import (
	"context"

	"github.com/gunnishmehta/youtube-backend/internal/model"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a video
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create video").
			String("title", video.Title).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// GetByID fetches a single video with its owner preloaded
func (r *VideoRepository) GetByID(ctx context.Context, id uint) (*model.Video, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "GetByID")

	var video model.Video
	result := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&video)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to fetch video").
				Uint("video_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &video, nil
}

// GetByIDs fetches videos for a batch of ids with their owner preloaded.
// Result order is database order; callers that care about order re-sort.
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.Video, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "GetByIDs")

	if len(ids) == 0 {
		return nil, nil
	}

	var videos []model.Video
	result := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id IN ?", ids).
		Find(&videos)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch videos by ids").
			Int("id_count", len(ids)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return videos, nil
}
