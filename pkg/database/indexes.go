package database

import (
	"gorm.io/gorm"
)

// CreateIndexes creates the indexes the query paths depend on.
// AutoMigrate covers the column-level unique constraints; these are the
// composite and expression indexes GORM tags cannot express.
func CreateIndexes(db *gorm.DB) error {
	indexes := []string{
		// Channel lookups are by lower-cased username
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username));",

		// One directed edge per subscriber/channel pair
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_edge ON subscriptions (subscriber_id, channel_id);",

		// Subscriber counts scan by channel, subscribed-to counts by subscriber
		"CREATE INDEX IF NOT EXISTS idx_subscriptions_channel ON subscriptions (channel_id);",
		"CREATE INDEX IF NOT EXISTS idx_subscriptions_subscriber ON subscriptions (subscriber_id);",

		// Watch-history join fetches videos in id batches with their owner
		"CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos (owner_id);",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}
	return nil
}
