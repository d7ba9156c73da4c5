package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gunnishmehta/youtube-backend/config"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func seedUser(t *testing.T, repo *memUserRepo) *model.User {
	t.Helper()
	user := &model.User{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Test",
		Password: "$2a$10$hash",
		Avatar:   "https://media.test/avatars/a.png",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestIssuePairAndVerifyAccess(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	pair, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	verified, err := svc.VerifyAccess(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, "alice", verified.Username)
	assert.Equal(t, "alice@example.com", verified.Email)

	// The refresh token is persisted onto the user record
	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestIssuePairUnknownUser(t *testing.T) {
	svc := NewTokenService(newMemUserRepo(), testJWTConfig())

	_, err := svc.IssuePair(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestVerifyAccessRejectsEmptyToken(t *testing.T) {
	svc := NewTokenService(newMemUserRepo(), testJWTConfig())

	_, err := svc.VerifyAccess(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyAccessRejectsTamperedToken(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	pair, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	_, err = svc.VerifyAccess(context.Background(), tampered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	// A refresh token signed with the refresh secret must not pass as an
	// access token
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	pair, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyAccessExpiredToken(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)

	cfg := testJWTConfig()
	cfg.AccessExpiry = -1 * time.Minute
	svc := NewTokenService(repo, cfg)

	pair, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRotateReplacesStoredToken(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	first, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	second, err := svc.Rotate(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.RefreshToken, stored.RefreshToken)
}

func TestRotateRejectsReplayedToken(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	first, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.Rotate(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// The superseded token still has a valid signature but must be refused
	_, err = svc.Rotate(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
}

func TestRotateAfterRevoke(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	pair, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), user.ID))

	_, err = svc.Rotate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
}

func TestRotateRejectsEmptyAndGarbage(t *testing.T) {
	svc := NewTokenService(newMemUserRepo(), testJWTConfig())

	_, err := svc.Rotate(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Rotate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRotateConcurrentSingleWinner(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(t, repo)
	svc := NewTokenService(repo, testJWTConfig())

	pair, err := svc.IssuePair(context.Background(), user.ID)
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Rotate(context.Background(), pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if !errors.Is(err, apperrors.ErrRefreshTokenExpired) && !errors.Is(err, apperrors.ErrInvalidRefreshToken) {
			t.Fatalf("unexpected rotate error: %v", err)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent rotation may succeed")
}

func TestRevokeUnknownUser(t *testing.T) {
	svc := NewTokenService(newMemUserRepo(), testJWTConfig())

	err := svc.Revoke(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
