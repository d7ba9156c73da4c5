package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gunnishmehta/youtube-backend/internal/dto"
	apperrors "github.com/gunnishmehta/youtube-backend/internal/errors"
	"github.com/gunnishmehta/youtube-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	users  *memUserRepo
	subs   *memSubRepo
	videos *memVideoRepo
	cache  *memProfileCache
	svc    *ProfileService

	alice, bob, carol, dave uint
}

// alice is subscribed to by bob and carol; alice subscribes to dave
func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	f := &profileFixture{
		users:  newMemUserRepo(),
		subs:   newMemSubRepo(),
		videos: newMemVideoRepo(),
		cache:  newMemProfileCache(),
	}
	f.svc = NewProfileService(f.users, f.subs, f.videos, &fakeUploader{}, f.cache)

	ctx := context.Background()
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		user := &model.User{
			Username: name,
			Email:    name + "@example.com",
			FullName: name + " Test",
			Avatar:   "https://media.test/avatars/" + name + ".png",
		}
		require.NoError(t, f.users.Create(ctx, user))
		switch name {
		case "alice":
			f.alice = user.ID
		case "bob":
			f.bob = user.ID
		case "carol":
			f.carol = user.ID
		case "dave":
			f.dave = user.ID
		}
	}

	require.NoError(t, f.subs.Create(ctx, &model.Subscription{SubscriberID: f.bob, ChannelID: f.alice}))
	require.NoError(t, f.subs.Create(ctx, &model.Subscription{SubscriberID: f.carol, ChannelID: f.alice}))
	require.NoError(t, f.subs.Create(ctx, &model.Subscription{SubscriberID: f.alice, ChannelID: f.dave}))

	return f
}

func TestGetChannelProfileCounts(t *testing.T) {
	f := newProfileFixture(t)

	profile, err := f.svc.GetChannelProfile(context.Background(), f.bob, "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, int64(2), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
	assert.True(t, profile.IsSubscribedTo, "bob is subscribed to alice")

	// dave is not subscribed to alice, same channel, different viewer
	profile, err = f.svc.GetChannelProfile(context.Background(), f.dave, "alice")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribedTo)
}

func TestGetChannelProfileCaseInsensitiveLookup(t *testing.T) {
	f := newProfileFixture(t)

	profile, err := f.svc.GetChannelProfile(context.Background(), f.bob, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
}

func TestGetChannelProfileUnknownChannel(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.GetChannelProfile(context.Background(), f.bob, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)
}

func TestGetChannelProfileBlankUsername(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.GetChannelProfile(context.Background(), f.bob, "  ")
	assert.ErrorIs(t, err, apperrors.ErrUsernameRequired)
}

func TestGetChannelProfileUsesCache(t *testing.T) {
	f := newProfileFixture(t)

	first, err := f.svc.GetChannelProfile(context.Background(), f.bob, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)

	second, err := f.svc.GetChannelProfile(context.Background(), f.bob, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, first, second)

	// A different viewer gets their own cache entry
	_, err = f.svc.GetChannelProfile(context.Background(), f.dave, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.sets)
}

func TestGetChannelProfileNeverLeaksSecrets(t *testing.T) {
	f := newProfileFixture(t)

	profile, err := f.svc.GetChannelProfile(context.Background(), f.bob, "alice")
	require.NoError(t, err)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "refreshToken")
}

func TestToggleSubscription(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	// dave subscribes to alice
	subscribed, err := f.svc.ToggleSubscription(ctx, f.dave, "alice")
	require.NoError(t, err)
	assert.True(t, subscribed)

	count, err := f.subs.CountSubscribers(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Toggling again unsubscribes
	subscribed, err = f.svc.ToggleSubscription(ctx, f.dave, "alice")
	require.NoError(t, err)
	assert.False(t, subscribed)

	count, err = f.subs.CountSubscribers(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestToggleSubscriptionInvalidatesViewerCacheEntry(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	before, err := f.svc.GetChannelProfile(ctx, f.dave, "alice")
	require.NoError(t, err)
	require.False(t, before.IsSubscribedTo)

	_, err = f.svc.ToggleSubscription(ctx, f.dave, "alice")
	require.NoError(t, err)
	require.Len(t, f.cache.invalidated, 1)

	// The next read must not serve the pre-toggle cached entry
	after, err := f.svc.GetChannelProfile(ctx, f.dave, "alice")
	require.NoError(t, err)
	assert.True(t, after.IsSubscribedTo)
	assert.Equal(t, int64(3), after.SubscribersCount)
}

func TestToggleSubscriptionUnknownChannel(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.ToggleSubscription(context.Background(), f.dave, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)
}

func seedVideo(t *testing.T, f *profileFixture, title string, ownerID uint) uint {
	t.Helper()
	owner, err := f.users.GetByID(context.Background(), ownerID)
	require.NoError(t, err)
	video := &model.Video{
		Title:       title,
		Description: title + " description",
		VideoFile:   "https://media.test/videos/" + title + ".mp4",
		Thumbnail:   "https://media.test/thumbnails/" + title + ".png",
		Duration:    120,
		IsPublished: true,
		OwnerID:     ownerID,
		Owner:       *owner,
	}
	require.NoError(t, f.videos.Create(context.Background(), video))
	return video.ID
}

func TestGetWatchHistoryPreservesOrder(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	v1 := seedVideo(t, f, "first", f.dave)
	v2 := seedVideo(t, f, "second", f.dave)
	v3 := seedVideo(t, f, "third", f.alice)

	// bob watched third, first, second, in that order
	for _, id := range []uint{v3, v1, v2} {
		require.NoError(t, f.users.AppendWatchHistory(ctx, f.bob, id))
	}

	history, err := f.svc.GetWatchHistory(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].Title)
	assert.Equal(t, "first", history[1].Title)
	assert.Equal(t, "second", history[2].Title)
}

func TestGetWatchHistorySkipsDeletedVideos(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	v1 := seedVideo(t, f, "kept", f.dave)
	require.NoError(t, f.users.AppendWatchHistory(ctx, f.bob, v1))
	require.NoError(t, f.users.AppendWatchHistory(ctx, f.bob, 9999)) // gone

	history, err := f.svc.GetWatchHistory(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "kept", history[0].Title)
}

func TestGetWatchHistoryEmpty(t *testing.T) {
	f := newProfileFixture(t)

	history, err := f.svc.GetWatchHistory(context.Background(), f.carol)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestGetWatchHistoryOwnerProjection(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	v1 := seedVideo(t, f, "clip", f.dave)
	require.NoError(t, f.users.AppendWatchHistory(ctx, f.bob, v1))

	history, err := f.svc.GetWatchHistory(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, history, 1)

	owner := history[0].Owner
	assert.Equal(t, "dave", owner.Username)
	assert.Equal(t, "dave Test", owner.FullName)
	assert.NotEmpty(t, owner.Avatar)

	// The serialized owner carries only the collapsed projection
	raw, err := json.Marshal(history[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "email")
	assert.NotContains(t, string(raw), "password")
}

func TestWatchVideoRecordsHistory(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	v1 := seedVideo(t, f, "clip", f.dave)

	entry, err := f.svc.WatchVideo(ctx, f.bob, v1)
	require.NoError(t, err)
	assert.Equal(t, "clip", entry.Title)

	history, err := f.svc.GetWatchHistory(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, v1, history[0].ID)
}

func TestWatchVideoUnknownVideo(t *testing.T) {
	f := newProfileFixture(t)

	_, err := f.svc.WatchVideo(context.Background(), f.bob, 777)
	assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
}

func TestPublishVideo(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	req := &dto.PublishVideoRequest{
		Title:       "My Clip",
		Description: "about things",
		Duration:    42,
	}

	entry, err := f.svc.PublishVideo(ctx, f.alice, req, "/tmp/clip.mp4", "/tmp/thumb.png")
	require.NoError(t, err)
	assert.Equal(t, "My Clip", entry.Title)
	assert.Contains(t, entry.VideoFile, "clip.mp4")
	assert.Contains(t, entry.Thumbnail, "thumb.png")

	stored, err := f.videos.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice, stored.OwnerID)
	assert.True(t, stored.IsPublished)
}

func TestPublishVideoMissingFiles(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	req := &dto.PublishVideoRequest{Title: "x", Description: "y"}

	_, err := f.svc.PublishVideo(ctx, f.alice, req, "", "/tmp/thumb.png")
	assert.ErrorIs(t, err, apperrors.ErrVideoFileRequired)

	_, err = f.svc.PublishVideo(ctx, f.alice, req, "/tmp/clip.mp4", "")
	assert.ErrorIs(t, err, apperrors.ErrThumbnailRequired)
}
