// Package options holds the persisted display toggles as observable stores.
package options

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/jwulff/countdown-go/internal/logging"
	"github.com/jwulff/countdown-go/internal/storage"
)

// persistTimeout bounds a single write to the backend.
const persistTimeout = 2 * time.Second

// Backend is where option values are kept between runs. storage.Store
// satisfies it.
type Backend interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Store is one persisted option. Set writes through to the backend and
// notifies subscribers before returning.
type Store[T any] struct {
	key     string
	backend Backend
	logger  *slog.Logger

	mu        sync.Mutex
	value     T
	nextID    int
	listeners []listener[T]
}

// Load reads an option. An override (the query string of the session) wins
// over the stored value, which wins over def. When nothing is stored, def is
// written back so the next run sees it.
func Load[T any](ctx context.Context, key string, def T, backend Backend, overrides url.Values, logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store[T]{key: key, backend: backend, logger: logger, value: def}

	if overrides.Has(key) {
		raw := overrides.Get(key)
		v, err := decode[T](raw)
		if err == nil {
			s.value = v
			return s
		}
		logger.Warn("ignoring option override", "key", key, "value", raw, "error", err)
	}

	if backend == nil {
		return s
	}

	raw, err := backend.GetConfig(ctx, key)
	switch {
	case storage.IsNotFound(err):
		if err := s.persist(def); err != nil {
			logger.Warn("failed to store option default", "key", key, "error", err)
		}
	case err != nil:
		logger.Warn("failed to read option", "key", key, "error", err)
	default:
		v, err := decode[T](raw)
		if err != nil {
			logger.Warn("malformed stored option", "key", key, "value", raw, "error", err)
			break
		}
		s.value = v
	}
	return s
}

// decode parses raw as JSON, and failing that as a bare string so that
// ?rendering-mode=fire works as well as ?rendering-mode="fire".
func decode[T any](raw string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(raw), &v)
	if err == nil {
		return v, nil
	}
	quoted, qerr := json.Marshal(raw)
	if qerr != nil {
		return v, err
	}
	var s T
	if json.Unmarshal(quoted, &s) == nil {
		return s, nil
	}
	return v, err
}

// Key returns the option's storage key.
func (s *Store[T]) Key() string { return s.key }

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v, persists it and calls every subscriber in subscription
// order. Subscribers are notified even when persisting fails; the error is
// returned afterwards.
func (s *Store[T]) Set(v T) error {
	s.mu.Lock()
	s.value = v
	fns := make([]func(T), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.Unlock()

	err := s.persist(v)
	if err != nil {
		s.logger.Warn("failed to persist option", "key", s.key, "error", err)
	}
	for _, fn := range fns {
		fn(v)
	}
	return err
}

// Update sets the result of fn applied to the current value.
func (s *Store[T]) Update(fn func(T) T) error {
	return s.Set(fn(s.Get()))
}

// Subscribe registers fn for future changes and returns a function that
// removes it.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store[T]) persist(v T) error {
	if s.backend == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.backend.SetConfig(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("store %s: %w", s.key, err)
	}
	return nil
}

// MemoryBackend keeps options in a map. The zero value is ready to use.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *MemoryBackend) GetConfig(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrNotFound{Resource: "config", ID: key}
	}
	return v, nil
}

func (m *MemoryBackend) SetConfig(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
