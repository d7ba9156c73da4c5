package repository

import (
	"context"
	"strings"
	"time"

	"github.com/gunnishmehta/youtube-backend/internal/model"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "GetByID")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByUsername finds user by case-normalized username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "GetByUsername")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by username").
			String("username", username).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// ExistsByUsernameOrEmail reports whether any user already holds the
// username or the email
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "ExistsByUsernameOrEmail")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("LOWER(username) = ? OR email = ?", strings.ToLower(username), email).
		Count(&count)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to check user existence").
			String("username", username).
			String("email", email).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return count > 0, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// UpdateAccount updates the mutable profile fields
func (r *UserRepository) UpdateAccount(ctx context.Context, id uint, fullName, email string) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "UpdateAccount")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"full_name": fullName,
		"email":     email,
	})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update account").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "UpdatePassword")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update password").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateAvatar replaces the stored avatar URL
func (r *UserRepository) UpdateAvatar(ctx context.Context, id uint, url string) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "UpdateAvatar")
	return r.updateColumn(ctx, id, "avatar", url)
}

// UpdateCoverImage replaces the stored cover image URL
func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uint, url string) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "UpdateCoverImage")
	return r.updateColumn(ctx, id, "cover_image", url)
}

func (r *UserRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update(column, value)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user column").
			Uint("user_id", id).
			String("column", column).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateRefreshToken overwrites the stored refresh token. Empty clears it.
// This is a single-column partial write; no other field is touched.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uint, refreshToken string) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "UpdateRefreshToken")

	var value interface{} = refreshToken
	if refreshToken == "" {
		value = nil
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", value)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token updated").
		Uint("user_id", id).
		Bool("has_token", refreshToken != "").
		Log()

	return nil
}

// SwapRefreshToken replaces the stored refresh token only if it still equals
// oldToken. The single guarded UPDATE is the compare-and-swap that keeps
// at most one refresh token valid under concurrent rotation: of two racers
// presenting the same token, exactly one sees RowsAffected == 1.
func (r *UserRepository) SwapRefreshToken(ctx context.Context, id uint, oldToken, newToken string) (bool, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "SwapRefreshToken")

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND refresh_token = ?", id, oldToken).
		Update("refresh_token", newToken)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to swap refresh token").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "Refresh token swap lost the race or token superseded").
			Uint("user_id", id).
			Log()
		return false, nil
	}

	return true, nil
}

// AppendWatchHistory appends a video id to the user's ordered watch history.
// Runs under a row lock so concurrent appends cannot drop entries.
func (r *UserRepository) AppendWatchHistory(ctx context.Context, id uint, videoID uint) error {
	ctx = ctxutil.WithModuleFunction(ctx, "repository", "AppendWatchHistory")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&user).Error; err != nil {
			return err
		}

		user.WatchHistory = append(user.WatchHistory, videoID)
		return tx.Model(&model.User{}).Where("id = ?", id).
			Update("watch_history", user.WatchHistory).Error
	})
}
