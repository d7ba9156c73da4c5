package constants

// Auth transport
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"

	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)

// Multipart form field names for uploaded files
const (
	FormFileAvatar     = "avatar"
	FormFileCoverImage = "coverImage"
	FormFileVideo      = "videoFile"
	FormFileThumbnail  = "thumbnail"
)
