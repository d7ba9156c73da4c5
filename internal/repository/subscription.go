package repository

import (
	"context"

	"github.com/gunnishmehta/youtube-backend/internal/model"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a subscriber→channel edge
func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(sub)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create subscription").
			Uint("subscriber_id", sub.SubscriberID).
			Uint("channel_id", sub.ChannelID).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// Delete removes the subscriber edge if it exists
func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uint) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete subscription").
			Uint("subscriber_id", subscriberID).
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// CountSubscribers counts edges pointing at the channel
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "CountSubscribers")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribers").
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return count, nil
}

// CountSubscribedTo counts edges originating from the subscriber
func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "CountSubscribedTo")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribed-to channels").
			Uint("subscriber_id", subscriberID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return count, nil
}

// IsSubscribed reports whether the subscriber→channel edge exists
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "IsSubscribed")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to check subscription edge").
			Uint("subscriber_id", subscriberID).
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return count > 0, nil
}
