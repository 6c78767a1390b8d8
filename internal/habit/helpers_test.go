package habit

import (
	"context"
	"encoding/json"
	"path"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/cache"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "habits.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	return NewService(repo, nil, nil, WithClock(func() time.Time { return fixedNow })), repo
}

func intPtr(n int) *int {
	return &n
}

func createHabit(t *testing.T, svc Service, userID uuid.UUID, dto CreateHabitDTO) *Habit {
	t.Helper()
	if dto.Name == "" {
		dto.Name = "Morning routine"
	}
	if dto.Frequency == "" {
		dto.Frequency = FrequencyDaily
	}
	h, err := svc.CreateHabit(t.Context(), userID, dto)
	require.NoError(t, err)
	return h
}

func createSubHabits(t *testing.T, svc Service, userID, habitID uuid.UUID, names ...string) []*SubHabit {
	t.Helper()
	subs := make([]*SubHabit, len(names))
	for i, name := range names {
		sub, err := svc.CreateSubHabit(t.Context(), userID, habitID, CreateSubHabitDTO{Name: name, Order: i})
		require.NoError(t, err)
		subs[i] = sub
	}
	return subs
}

// memoryCache is a map-backed cache.Cache; values go through JSON like the redis cache.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
