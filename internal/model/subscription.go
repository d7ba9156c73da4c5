package model

import (
	"gorm.io/gorm"
)

// Subscription is a directed edge: Subscriber follows Channel. Both ends are
// users. One edge per pair (enforced by a composite unique index).
type Subscription struct {
	gorm.Model
	SubscriberID uint `gorm:"column:subscriber_id;not null" json:"subscriberId"`
	ChannelID    uint `gorm:"column:channel_id;not null" json:"channelId"`

	Subscriber User `gorm:"foreignKey:SubscriberID" json:"-"`
	Channel    User `gorm:"foreignKey:ChannelID" json:"-"`
}
