package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gunnishmehta/youtube-backend/config"
	"github.com/gunnishmehta/youtube-backend/internal/dto"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/model"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"gorm.io/gorm"
)

// TokenService owns the access/refresh token lifecycle. Access tokens are
// stateless and verified without a database hit beyond the user lookup;
// refresh tokens are stateful, stored one-per-user, and rotated on use.
type TokenService struct {
	users         UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenService(users UserRepository, cfg config.JWTConfig) *TokenService {
	return &TokenService{
		users:         users,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}
}

// AccessExpiry exposes the access token lifetime (cookie max-age)
func (s *TokenService) AccessExpiry() time.Duration { return s.accessExpiry }

// RefreshExpiry exposes the refresh token lifetime (cookie max-age)
func (s *TokenService) RefreshExpiry() time.Duration { return s.refreshExpiry }

// mintAccessToken creates the short-lived stateless token carrying the
// user's identity and a small set of profile claims
func (s *TokenService) mintAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"email":     user.Email,
		"username":  user.Username,
		"full_name": user.FullName,
		"exp":       now.Add(s.accessExpiry).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.accessSecret)
}

// mintRefreshToken creates the longer-lived token carrying only the
// identity. The jti makes every minted token distinct even within the same
// second, so the stored-value comparison can tell generations apart.
func (s *TokenService) mintRefreshToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.NewString(),
		"exp":     now.Add(s.refreshExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.refreshSecret)
}

func (s *TokenService) mintPair(user *model.User) (*dto.TokenPair, error) {
	accessToken, err := s.mintAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.mintRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// parseToken validates signature and expiry against the given secret and
// returns the embedded user id
func (s *TokenService) parseToken(tokenString string, secret []byte) (uint, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, nil, errors.New("invalid token")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, nil, errors.New("missing user id claim")
	}

	return uint(userIDFloat), claims, nil
}

// IssuePair mints a fresh access/refresh pair for the user and persists the
// refresh token onto the user record, overwriting whatever was stored. One
// persisted write per call; no other user field is touched.
func (s *TokenService) IssuePair(ctx context.Context, userID uint) (*dto.TokenPair, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "IssuePair")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	pair, err := s.mintPair(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to mint token pair").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdateRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist refresh token").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Token pair issued").
		Uint("user_id", userID).
		Log()

	return pair, nil
}

// VerifyAccess resolves an access token to the user's public profile.
// Stateless except for the existence check against the credential store.
func (s *TokenService) VerifyAccess(ctx context.Context, tokenString string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "VerifyAccess")

	if tokenString == "" {
		return nil, apperrors.ErrUnauthorized
	}

	userID, _, err := s.parseToken(tokenString, s.accessSecret)
	if err != nil {
		logger.DebugWithContext(ctx, "Access token verification failed").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := toUserResponse(user)
	return &response, nil
}

// Rotate exchanges a presented refresh token for a fresh pair. The presented
// token must match the stored one, and the store happens through a
// compare-and-swap on the old value, so a superseded token can never win a
// race against the rotation that superseded it.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*dto.TokenPair, error) {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "Rotate")

	if presented == "" {
		return nil, apperrors.ErrUnauthorized
	}

	userID, _, err := s.parseToken(presented, s.refreshSecret)
	if err != nil {
		logger.DebugWithContext(ctx, "Refresh token verification failed").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInvalidRefreshToken, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Reuse of a superseded token: valid signature, but no longer the
	// stored value
	if user.RefreshToken == "" || presented != user.RefreshToken {
		logger.WarnWithContext(ctx, "Stale refresh token presented").
			Uint("user_id", userID).
			Log()
		return nil, apperrors.ErrRefreshTokenExpired
	}

	pair, err := s.mintPair(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to mint rotated token pair").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	swapped, err := s.users.SwapRefreshToken(ctx, userID, presented, pair.RefreshToken)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !swapped {
		// A concurrent rotation won with the same presented token
		return nil, apperrors.ErrInvalidRefreshToken
	}

	logger.InfoWithContext(ctx, "Refresh token rotated").
		Uint("user_id", userID).
		Log()

	return pair, nil
}

// Revoke clears the stored refresh token, invalidating every outstanding
// refresh token for the user
func (s *TokenService) Revoke(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithModuleFunction(ctx, "service", "Revoke")

	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Refresh token revoked").
		Uint("user_id", userID).
		Log()

	return nil
}
