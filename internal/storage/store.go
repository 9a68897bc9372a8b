// Package storage provides the persistence abstractions for the countdown.
package storage

import (
	"context"
	"errors"
	"time"
)

// Store is the interface for persistent storage.
type Store interface {
	// Frame cache
	CacheFrame(ctx context.Context, frame *CachedFrame) error
	GetCachedFrame(ctx context.Context, key string) (*CachedFrame, error)
	PruneFrames(ctx context.Context, before time.Time) (int64, error)

	// Configuration
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	DeleteConfig(ctx context.Context, key string) error
	ListConfig(ctx context.Context) (map[string]string, error)

	// Device management
	SaveDevice(ctx context.Context, device *Device) error
	GetDevice(ctx context.Context, id string) (*Device, error)
	GetDevices(ctx context.Context) ([]*Device, error)
	DeleteDevice(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}

// CachedFrame is a rendered image kept for reuse. Key identifies what was
// rendered, e.g. the size, mode and minute of a preview.
type CachedFrame struct {
	Key         string
	FrameData   []byte
	ContentType string
	GeneratedAt time.Time
}

// Fresh reports whether the frame was generated within maxAge of now.
func (f *CachedFrame) Fresh(now time.Time, maxAge time.Duration) bool {
	return f != nil && now.Sub(f.GeneratedAt) < maxAge
}

// Device represents a stored Pixoo device.
type Device struct {
	ID        string
	IP        string
	Name      string
	Type      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// NewDevice creates a new device record.
func NewDevice(id, ip, name, deviceType string) *Device {
	now := time.Now()
	return &Device{
		ID:        id,
		IP:        ip,
		Name:      name,
		Type:      deviceType,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error is, or wraps, a not found error.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
