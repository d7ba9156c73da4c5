package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the credential-store record. Password holds only a bcrypt hash and
// RefreshToken holds the single currently-valid refresh token; both are
// excluded from JSON so they can never leak through a serialized model.
type User struct {
	gorm.Model
	Username     string `gorm:"column:username;unique;not null" json:"username"`
	Email        string `gorm:"column:email;unique;not null" json:"email"`
	FullName     string `gorm:"column:full_name;not null" json:"fullName"`
	Password     string `gorm:"column:password;not null" json:"-"`
	Avatar       string `gorm:"column:avatar;not null" json:"avatar"`
	CoverImage   string `gorm:"column:cover_image" json:"coverImage"`
	RefreshToken string `gorm:"column:refresh_token;default:null" json:"-"`

	// WatchHistory keeps the ordered video ids on the user record itself,
	// insertion order = viewing order.
	WatchHistory datatypes.JSONSlice[uint] `gorm:"column:watch_history" json:"-"`
}
