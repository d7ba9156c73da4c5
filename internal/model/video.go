package model

import (
	"gorm.io/gorm"
)

// Video is a published media item owned by a user.
type Video struct {
	gorm.Model
	Title       string  `gorm:"column:title;not null" json:"title"`
	Description string  `gorm:"column:description" json:"description"`
	VideoFile   string  `gorm:"column:video_file;not null" json:"videoFile"`
	Thumbnail   string  `gorm:"column:thumbnail" json:"thumbnail"`
	Duration    float64 `gorm:"column:duration" json:"duration"`
	Views       int64   `gorm:"column:views;default:0" json:"views"`
	IsPublished bool    `gorm:"column:is_published;default:true" json:"isPublished"`
	OwnerID     uint    `gorm:"column:owner_id;not null" json:"ownerId"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
