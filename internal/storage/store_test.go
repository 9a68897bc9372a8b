package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDevice(t *testing.T) {
	device := NewDevice("dev-1", "192.168.1.100", "Living Room", "pixoo64")

	assert.Equal(t, "dev-1", device.ID)
	assert.Equal(t, "192.168.1.100", device.IP)
	assert.Equal(t, "Living Room", device.Name)
	assert.Equal(t, "pixoo64", device.Type)
	assert.False(t, device.CreatedAt.IsZero())
	assert.Equal(t, device.CreatedAt, device.LastSeen)
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound{Resource: "config", ID: "show-pixels"}

	assert.Equal(t, "config not found: show-pixels", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("load option: %w", err)))
}

func TestIsNotFoundFalse(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(assert.AnError))
}

func TestCachedFrameFresh(t *testing.T) {
	now := time.Now()
	frame := &CachedFrame{
		Key:         "800x600",
		FrameData:   []byte{1, 2, 3},
		GeneratedAt: now.Add(-30 * time.Second),
	}

	assert.True(t, frame.Fresh(now, time.Minute))
	assert.False(t, frame.Fresh(now, 10*time.Second))

	var missing *CachedFrame
	assert.False(t, missing.Fresh(now, time.Hour))
}
