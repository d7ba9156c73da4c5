package handler

import (
	"net/http"

	"github.com/gunnishmehta/youtube-backend/internal/constants"
	"github.com/gunnishmehta/youtube-backend/internal/dto"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/middleware"
	"github.com/gunnishmehta/youtube-backend/internal/service"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
}

func authedUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
			http.StatusUnauthorized, apperrors.ErrUnauthorized.Message))
	}
	return userID, ok
}

// ChangePassword verifies the old password and replaces it
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "invalid request format", err.Error()))
		return
	}

	if err := h.userService.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, gin.H{}, "password changed successfully"))
}

// CurrentUser returns the authenticated user's public profile. The session
// middleware already resolved the user, no extra database read happens here.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	value, exists := c.Get(middleware.GinKeyUser)
	if !exists {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
			http.StatusUnauthorized, apperrors.ErrUnauthorized.Message))
		return
	}

	user, ok := value.(*dto.UserResponse)
	if !ok {
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(
			http.StatusInternalServerError, "internal server error"))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, user, "current user fetched successfully"))
}

// UpdateAccount updates full name and email
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAccount")

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "invalid request format", err.Error()))
		return
	}

	user, err := h.userService.UpdateAccount(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, user, "account details updated successfully"))
}

// UpdateAvatar replaces the avatar from a multipart upload
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAvatar")

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	avatarPath, cleanup, err := saveUploadedFile(c, constants.FormFileAvatar)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "failed to read avatar file", err.Error()))
		return
	}
	defer cleanup()

	user, err := h.userService.UpdateAvatar(ctx, userID, avatarPath)
	if err != nil {
		logger.WarnWithContext(ctx, "Avatar update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, user, "avatar updated successfully"))
}

// UpdateCoverImage replaces the cover image from a multipart upload
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateCoverImage")

	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	coverPath, cleanup, err := saveUploadedFile(c, constants.FormFileCoverImage)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "failed to read cover image file", err.Error()))
		return
	}
	defer cleanup()

	user, err := h.userService.UpdateCoverImage(ctx, userID, coverPath)
	if err != nil {
		logger.WarnWithContext(ctx, "Cover image update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, user, "cover image updated successfully"))
}
