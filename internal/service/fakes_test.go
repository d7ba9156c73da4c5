package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gunnishmehta/youtube-backend/internal/dto"
	"github.com/gunnishmehta/youtube-backend/internal/model"
	"gorm.io/gorm"
)

// In-memory stand-ins for the GORM repositories. They mirror the storage
// contracts, including gorm.ErrRecordNotFound on missing rows and the
// compare-and-swap semantics of SwapRefreshToken.

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*model.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == strings.ToLower(username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == strings.ToLower(username) || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) UpdateAccount(_ context.Context, id uint, fullName, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.FullName = fullName
	user.Email = email
	return nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id uint, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (m *memUserRepo) UpdateAvatar(_ context.Context, id uint, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Avatar = url
	return nil
}

func (m *memUserRepo) UpdateCoverImage(_ context.Context, id uint, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.CoverImage = url
	return nil
}

func (m *memUserRepo) UpdateRefreshToken(_ context.Context, id uint, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshToken = refreshToken
	return nil
}

func (m *memUserRepo) SwapRefreshToken(_ context.Context, id uint, oldToken, newToken string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.RefreshToken != oldToken {
		return false, nil
	}
	user.RefreshToken = newToken
	return true, nil
}

func (m *memUserRepo) AppendWatchHistory(_ context.Context, id uint, videoID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.WatchHistory = append(user.WatchHistory, videoID)
	return nil
}

type subEdge struct {
	subscriberID uint
	channelID    uint
}

type memSubRepo struct {
	mu    sync.Mutex
	edges []subEdge
}

func newMemSubRepo() *memSubRepo { return &memSubRepo{} }

func (m *memSubRepo) Create(_ context.Context, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, subEdge{sub.SubscriberID, sub.ChannelID})
	return nil
}

func (m *memSubRepo) Delete(_ context.Context, subscriberID, channelID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.subscriberID != subscriberID || e.channelID != channelID {
			kept = append(kept, e)
		}
	}
	m.edges = kept
	return nil
}

func (m *memSubRepo) CountSubscribers(_ context.Context, channelID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.edges {
		if e.channelID == channelID {
			n++
		}
	}
	return n, nil
}

func (m *memSubRepo) CountSubscribedTo(_ context.Context, subscriberID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.edges {
		if e.subscriberID == subscriberID {
			n++
		}
	}
	return n, nil
}

func (m *memSubRepo) IsSubscribed(_ context.Context, subscriberID, channelID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.edges {
		if e.subscriberID == subscriberID && e.channelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

type memVideoRepo struct {
	mu     sync.Mutex
	nextID uint
	videos map[uint]*model.Video
}

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: make(map[uint]*model.Video)}
}

func (m *memVideoRepo) Create(_ context.Context, video *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	video.ID = m.nextID
	copied := *video
	m.videos[video.ID] = &copied
	return nil
}

func (m *memVideoRepo) GetByID(_ context.Context, id uint) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	video, ok := m.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *video
	return &copied, nil
}

func (m *memVideoRepo) GetByIDs(_ context.Context, ids []uint) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uint]bool, len(ids))
	var out []model.Video
	// Deliberately not in request order; callers re-sort
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if video, ok := m.videos[id]; ok {
			out = append(out, *video)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// fakeUploader records uploads and hands back deterministic URLs
type fakeUploader struct {
	mu      sync.Mutex
	calls   []string
	failAll bool
	failOn  string // folder name that should fail
}

func (f *fakeUploader) Upload(_ context.Context, localPath, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, folder)
	if f.failAll || (f.failOn != "" && folder == f.failOn) {
		return "", fmt.Errorf("upload rejected")
	}
	return "https://media.test/" + folder + "/" + filepath.Base(localPath), nil
}

// memProfileCache counts hits and misses for cache behavior assertions
type memProfileCache struct {
	mu          sync.Mutex
	entries     map[string]*dto.ChannelProfileResponse
	hits        int
	sets        int
	invalidated []string
}

func newMemProfileCache() *memProfileCache {
	return &memProfileCache{entries: make(map[string]*dto.ChannelProfileResponse)}
}

func (c *memProfileCache) GetChannelProfile(_ context.Context, key string) (*dto.ChannelProfileResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	profile, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return profile, ok
}

func (c *memProfileCache) SetChannelProfile(_ context.Context, key string, profile *dto.ChannelProfileResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = profile
}

func (c *memProfileCache) InvalidateChannelProfile(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, key)
	delete(c.entries, key)
}
