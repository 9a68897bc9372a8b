// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jwulff/countdown-go/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:")
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path)
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to :memory: is its own database, and SQLite serializes
	// writers anyway.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Device methods

func (s *Store) SaveDevice(ctx context.Context, device *storage.Device) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (id, ip, name, type, created_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ip = excluded.ip,
			name = excluded.name,
			type = excluded.type,
			last_seen = excluded.last_seen
	`, device.ID, device.IP, device.Name, device.Type, device.CreatedAt, device.LastSeen)
	return err
}

func (s *Store) GetDevice(ctx context.Context, id string) (*storage.Device, error) {
	var device storage.Device
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ip, name, type, created_at, last_seen FROM devices WHERE id = ?
	`, id).Scan(&device.ID, &device.IP, &device.Name, &device.Type, &device.CreatedAt, &device.LastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound{Resource: "device", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *Store) GetDevices(ctx context.Context) ([]*storage.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ip, name, type, created_at, last_seen FROM devices ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*storage.Device
	for rows.Next() {
		var device storage.Device
		if err := rows.Scan(&device.ID, &device.IP, &device.Name, &device.Type, &device.CreatedAt, &device.LastSeen); err != nil {
			return nil, err
		}
		devices = append(devices, &device)
	}
	return devices, rows.Err()
}

func (s *Store) DeleteDevice(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	return err
}

// Frame cache methods

func (s *Store) CacheFrame(ctx context.Context, frame *storage.CachedFrame) error {
	contentType := frame.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO frame_cache (key, frame_data, content_type, generated_at)
		VALUES (?, ?, ?, ?)
	`, frame.Key, frame.FrameData, contentType, frame.GeneratedAt.UnixMilli())
	return err
}

func (s *Store) GetCachedFrame(ctx context.Context, key string) (*storage.CachedFrame, error) {
	frame := storage.CachedFrame{Key: key}
	var generated int64
	err := s.db.QueryRowContext(ctx, `
		SELECT frame_data, content_type, generated_at FROM frame_cache WHERE key = ?
	`, key).Scan(&frame.FrameData, &frame.ContentType, &generated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound{Resource: "frame_cache", ID: key}
	}
	if err != nil {
		return nil, err
	}
	frame.GeneratedAt = time.UnixMilli(generated)
	return &frame, nil
}

// PruneFrames deletes frames generated before the cutoff and returns how many
// were removed.
func (s *Store) PruneFrames(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM frame_cache WHERE generated_at < ?", before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Config methods

func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound{Resource: "config", ID: key}
	}
	return value, err
}

func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO config (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now())
	return err
}

func (s *Store) DeleteConfig(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM config WHERE key = ?", key)
	return err
}

func (s *Store) ListConfig(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM config ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	return config, rows.Err()
}

// Verify interface compliance
var _ storage.Store = (*Store)(nil)
