package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jwulff/countdown-go/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewMemoryStore(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir + "/test.db")
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store)
}

func TestFileStoreReopen(t *testing.T) {
	path := t.TempDir() + "/countdown.db"
	ctx := context.Background()

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetConfig(ctx, "show-pixels", "false"))
	require.NoError(t, store.Close())

	store, err = NewFileStore(path)
	require.NoError(t, err)
	defer store.Close()

	value, err := store.GetConfig(ctx, "show-pixels")
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

// Device tests

func TestSaveAndGetDevice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	device := storage.NewDevice("dev-1", "192.168.1.100", "Test Device", "pixoo64")

	err := store.SaveDevice(ctx, device)
	require.NoError(t, err)

	retrieved, err := store.GetDevice(ctx, "dev-1")
	require.NoError(t, err)

	assert.Equal(t, device.ID, retrieved.ID)
	assert.Equal(t, device.IP, retrieved.IP)
	assert.Equal(t, device.Name, retrieved.Name)
	assert.Equal(t, device.Type, retrieved.Type)
}

func TestSaveDeviceUpdatesAddress(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDevice(ctx, storage.NewDevice("dev-1", "192.168.1.100", "Desk", "pixoo64")))
	require.NoError(t, store.SaveDevice(ctx, storage.NewDevice("dev-1", "192.168.1.150", "Desk", "pixoo64")))

	devices, err := store.GetDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "192.168.1.150", devices[0].IP)
}

func TestGetDeviceNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetDevice(ctx, "nonexistent")
	assert.True(t, storage.IsNotFound(err))
}

func TestGetDevices(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveDevice(ctx, storage.NewDevice("dev-2", "192.168.1.101", "Device 2", "pixoo64"))
	_ = store.SaveDevice(ctx, storage.NewDevice("dev-1", "192.168.1.100", "Device 1", "pixoo64"))

	devices, err := store.GetDevices(ctx)
	require.NoError(t, err)

	require.Len(t, devices, 2)
	assert.Equal(t, "Device 1", devices[0].Name)
}

func TestDeleteDevice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	device := storage.NewDevice("dev-1", "192.168.1.100", "Test Device", "pixoo64")
	_ = store.SaveDevice(ctx, device)

	err := store.DeleteDevice(ctx, "dev-1")
	require.NoError(t, err)

	_, err = store.GetDevice(ctx, "dev-1")
	assert.True(t, storage.IsNotFound(err))
}

// Frame cache tests

func TestCacheAndGetFrame(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	frame := &storage.CachedFrame{
		Key:         "800x600@2/normal/11:11",
		FrameData:   []byte{1, 2, 3, 4},
		GeneratedAt: time.Now(),
	}

	err := store.CacheFrame(ctx, frame)
	require.NoError(t, err)

	retrieved, err := store.GetCachedFrame(ctx, frame.Key)
	require.NoError(t, err)

	assert.Equal(t, frame.FrameData, retrieved.FrameData)
	assert.Equal(t, "image/png", retrieved.ContentType)
	assert.Equal(t, frame.GeneratedAt.UnixMilli(), retrieved.GeneratedAt.UnixMilli())
}

func TestCacheFrameReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.CacheFrame(ctx, &storage.CachedFrame{Key: "k", FrameData: []byte{1}, GeneratedAt: time.Now()})
	_ = store.CacheFrame(ctx, &storage.CachedFrame{Key: "k", FrameData: []byte{2}, GeneratedAt: time.Now()})

	retrieved, err := store.GetCachedFrame(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, retrieved.FrameData)
}

func TestGetCachedFrameNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetCachedFrame(ctx, "missing")
	assert.True(t, storage.IsNotFound(err))
}

func TestPruneFrames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	_ = store.CacheFrame(ctx, &storage.CachedFrame{Key: "old", FrameData: []byte{1}, GeneratedAt: now.Add(-2 * time.Hour)})
	_ = store.CacheFrame(ctx, &storage.CachedFrame{Key: "new", FrameData: []byte{2}, GeneratedAt: now})

	removed, err := store.PruneFrames(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.GetCachedFrame(ctx, "old")
	assert.True(t, storage.IsNotFound(err))
	_, err = store.GetCachedFrame(ctx, "new")
	assert.NoError(t, err)
}

// Config tests

func TestSetAndGetConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SetConfig(ctx, "rendering-mode", `"festive"`)
	require.NoError(t, err)

	value, err := store.GetConfig(ctx, "rendering-mode")
	require.NoError(t, err)

	assert.Equal(t, `"festive"`, value)
}

func TestGetConfigNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetConfig(ctx, "nonexistent")
	assert.True(t, storage.IsNotFound(err))
}

func TestDeleteConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SetConfig(ctx, "key", "value")

	err := store.DeleteConfig(ctx, "key")
	require.NoError(t, err)

	_, err = store.GetConfig(ctx, "key")
	assert.True(t, storage.IsNotFound(err))
}

func TestUpdateConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SetConfig(ctx, "key", "value1")
	_ = store.SetConfig(ctx, "key", "value2")

	value, err := store.GetConfig(ctx, "key")
	require.NoError(t, err)

	assert.Equal(t, "value2", value)
}

func TestListConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SetConfig(ctx, "condense-fish", "true")
	_ = store.SetConfig(ctx, "twelve-hour-time", "false")

	config, err := store.ListConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"condense-fish":    "true",
		"twelve-hour-time": "false",
	}, config)
}
