package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gunnishmehta/youtube-backend/internal/constants"
	"github.com/gunnishmehta/youtube-backend/internal/dto"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/middleware"
	"github.com/gunnishmehta/youtube-backend/internal/service"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	userService *service.UserService
	tokens      *service.TokenService
}

func NewAuthHandler(userService *service.UserService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// setSessionCookies writes both tokens as httpOnly secure cookies
func (h *AuthHandler) setSessionCookies(c *gin.Context, pair dto.TokenPair) {
	c.SetCookie(constants.CookieAccessToken, pair.AccessToken,
		int(h.tokens.AccessExpiry().Seconds()), "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, pair.RefreshToken,
		int(h.tokens.RefreshExpiry().Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", "", true, true)
}

// saveUploadedFile spools a multipart file to a temp path and returns it.
// An absent file field is not an error; the path comes back empty.
func saveUploadedFile(c *gin.Context, field string) (string, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", func() {}, nil
	}

	path := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", func() {}, err
	}

	return path, func() { os.Remove(path) }, nil
}

// Register handles new user registration from a multipart form
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid registration request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "invalid request format", err.Error()))
		return
	}

	avatarPath, cleanupAvatar, err := saveUploadedFile(c, constants.FormFileAvatar)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "failed to read avatar file", err.Error()))
		return
	}
	defer cleanupAvatar()

	coverPath, cleanupCover, err := saveUploadedFile(c, constants.FormFileCoverImage)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "failed to read cover image file", err.Error()))
		return
	}
	defer cleanupCover()

	user, err := h.userService.Register(ctx, &req, avatarPath, coverPath)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("username", req.Username).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse(
		http.StatusCreated, user, "user registered successfully"))
}

// Login authenticates a user and establishes the cookie session
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			http.StatusBadRequest, "invalid request format", err.Error()))
		return
	}

	response, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	h.setSessionCookies(c, dto.TokenPair{
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
	})

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, response, "user logged in successfully"))
}

// Logout revokes the stored refresh token and clears the session cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
			http.StatusUnauthorized, apperrors.ErrUnauthorized.Message))
		return
	}

	if err := h.userService.Logout(ctx, userID); err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	h.clearSessionCookies(c)

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, gin.H{}, "user logged out successfully"))
}

// RefreshToken rotates the refresh token. The presented token comes from the
// session cookie first, then from the request body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	presented, _ := c.Cookie(constants.CookieRefreshToken)
	if presented == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.tokens.Rotate(ctx, presented)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	h.setSessionCookies(c, *pair)

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(
		http.StatusOK, pair, "access token refreshed"))
}
