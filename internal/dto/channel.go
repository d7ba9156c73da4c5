package dto

// ChannelProfileResponse is the whitelisted channel projection. The computed
// fields come from the subscription edge set; password and refresh token are
// never part of the join source.
type ChannelProfileResponse struct {
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribedTo            bool   `json:"isSubscribedTo"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	Email                     string `json:"email"`
}

// PublishVideoRequest carries the multipart text fields for a new video;
// the video file and thumbnail are read off the request separately
type PublishVideoRequest struct {
	Title       string  `form:"title" binding:"required,min=1,max=200"`
	Description string  `form:"description" binding:"required"`
	Duration    float64 `form:"duration" binding:"omitempty,gte=0"`
}

// VideoOwner is the collapsed owner projection on a watch-history entry
type VideoOwner struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// WatchHistoryEntry is one enriched video in a user's watch history
type WatchHistoryEntry struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoFile   string     `json:"videoFile"`
	Thumbnail   string     `json:"thumbnail"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	Owner       VideoOwner `json:"owner"`
}
