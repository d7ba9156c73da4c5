package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gunnishmehta/youtube-backend/internal/dto"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/model"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Media storage folders for the two profile images
const (
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

type UserService struct {
	users  UserRepository
	tokens *TokenService
	media  MediaUploader
}

func NewUserService(users UserRepository, tokens *TokenService, media MediaUploader) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		media:  media,
	}
}

// hashPassword hashes password using bcrypt
func (s *UserService) hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func (s *UserService) checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Register creates a new user. The avatar file is mandatory and its upload
// must succeed; the cover image is optional and upload failure degrades to an
// empty URL. The stored username is lower-cased.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest, avatarPath, coverPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "Register")

	// Required text fields must be non-blank, not just present
	for _, field := range []string{req.Username, req.Email, req.FullName, req.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, apperrors.ErrFieldsRequired
		}
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		logger.WarnWithContext(ctx, "Registration conflict").
			String("username", req.Username).
			String("email", req.Email).
			Log()
		return nil, apperrors.ErrUserExists
	}

	if avatarPath == "" {
		return nil, apperrors.ErrAvatarRequired
	}

	avatarURL, err := s.media.Upload(ctx, avatarPath, avatarFolder)
	if err != nil || avatarURL == "" {
		logger.WarnWithContext(ctx, "Avatar upload failed").
			String("username", req.Username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrAvatarUpload, err)
	}

	// Cover image is optional; a failed upload leaves it empty
	coverURL := ""
	if coverPath != "" {
		coverURL, err = s.media.Upload(ctx, coverPath, coverFolder)
		if err != nil {
			logger.WarnWithContext(ctx, "Cover image upload failed, continuing without").
				String("username", req.Username).
				Err(err).
				Log()
			coverURL = ""
		}
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username:   strings.ToLower(strings.TrimSpace(req.Username)),
		Email:      strings.TrimSpace(req.Email),
		FullName:   strings.TrimSpace(req.FullName),
		Password:   hashedPassword,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		String("username", user.Username).
		Uint("user_id", user.ID).
		Log()

	response := toUserResponse(user)
	return &response, nil
}

// Login authenticates by email and password, issues a token pair, and
// returns the public profile alongside it
func (s *UserService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "Login")

	if strings.TrimSpace(email) == "" {
		return nil, apperrors.ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed: unknown email").
				String("email", email).
				Log()
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.checkPassword(user.Password, password) {
		logger.WarnWithContext(ctx, "Login failed: incorrect password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Log()

	return &dto.LoginResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout invalidates all outstanding refresh tokens for the user
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "Logout")
	return s.tokens.Revoke(ctx, userID)
}

// ChangePassword replaces the password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "ChangePassword")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.checkPassword(user.Password, oldPassword) {
		logger.WarnWithContext(ctx, "Change password failed: old password mismatch").
			Uint("user_id", userID).
			Log()
		return apperrors.ErrIncorrectPassword
	}

	hashedPassword, err := s.hashPassword(newPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()

	return nil
}

// UpdateAccount updates the mutable profile fields
func (s *UserService) UpdateAccount(ctx context.Context, userID uint, req *dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "UpdateAccount")

	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.ErrFieldsRequired
	}

	if err := s.users.UpdateAccount(ctx, userID, strings.TrimSpace(req.FullName), strings.TrimSpace(req.Email)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.publicUserByID(ctx, userID)
}

// UpdateAvatar uploads a replacement avatar and swaps the stored URL only
// after the upload succeeds. The previous remote asset is left in place.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, avatarPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "UpdateAvatar")

	if avatarPath == "" {
		return nil, apperrors.ErrAvatarRequired
	}

	url, err := s.media.Upload(ctx, avatarPath, avatarFolder)
	if err != nil || url == "" {
		return nil, apperrors.WrapError(apperrors.ErrAvatarUpload, err)
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.publicUserByID(ctx, userID)
}

// UpdateCoverImage uploads a replacement cover image; same contract as
// UpdateAvatar
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, coverPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "UpdateCoverImage")

	if coverPath == "" {
		return nil, apperrors.ErrCoverImageRequired
	}

	url, err := s.media.Upload(ctx, coverPath, coverFolder)
	if err != nil || url == "" {
		return nil, apperrors.WrapError(apperrors.ErrCoverImageUpload, err)
	}

	if err := s.users.UpdateCoverImage(ctx, userID, url); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.publicUserByID(ctx, userID)
}

func (s *UserService) publicUserByID(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toUserResponse(user)
	return &response, nil
}
