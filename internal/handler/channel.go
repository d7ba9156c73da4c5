package handler

import (
	"net/http"
	"strconv"

	"github.com/gunnishmehta/youtube-backend/internal/constants"
	"github.com/gunnishmehta/youtube-backend/internal/dto"
	"github.com/gunnishmehta/youtube-backend/internal/service"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	profileService *service.ProfileService
}

func NewChannelHandler(profileService *service.ProfileService) *ChannelHandler {
	return &ChannelHandler{profileService: profileService}
}

// GetChannelProfile returns a channel's public profile with subscription
// counts relative to the requesting viewer
func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetChannelProfile")

	viewerID, ok := authedUserID(c)
	if !ok {
		return
	}

	username := c.Param("username")

	profile, err := h.profileService.GetChannelProfile(ctx, viewerID, username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, profile, "channel profile fetched successfully"))
}

// ToggleSubscription flips the viewer's subscription to a channel
func (h *ChannelHandler) ToggleSubscription(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ToggleSubscription")

	viewerID, ok := authedUserID(c)
	if !ok {
		return
	}

	username := c.Param("username")

	subscribed, err := h.profileService.ToggleSubscription(ctx, viewerID, username)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "subscribed successfully"
	if !subscribed {
		message = "unsubscribed successfully"
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, gin.H{"subscribed": subscribed}, message))
}

// GetWatchHistory returns the viewer's watch history with owner details
func (h *ChannelHandler) GetWatchHistory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetWatchHistory")

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	history, err := h.profileService.GetWatchHistory(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, history, "watch history fetched successfully"))
}

// PublishVideo creates a new video from a multipart upload
func (h *ChannelHandler) PublishVideo(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "PublishVideo")

	ownerID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req dto.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "invalid request format", err.Error()))
		return
	}

	videoPath, cleanupVideo, err := saveUploadedFile(c, constants.FormFileVideo)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "failed to read video file", err.Error()))
		return
	}
	defer cleanupVideo()

	thumbnailPath, cleanupThumbnail, err := saveUploadedFile(c, constants.FormFileThumbnail)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "failed to read thumbnail file", err.Error()))
		return
	}
	defer cleanupThumbnail()

	video, err := h.profileService.PublishVideo(ctx, ownerID, &req, videoPath, thumbnailPath)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse(
		http.StatusCreated, video, "video published successfully"))
}

// WatchVideo fetches a video for playback and records the view in the
// requesting user's watch history
func (h *ChannelHandler) WatchVideo(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "WatchVideo")

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	videoID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "invalid video id", err.Error()))
		return
	}

	video, err := h.profileService.WatchVideo(ctx, userID, uint(videoID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, video, "video fetched successfully"))
}
