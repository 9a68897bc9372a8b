package options

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/jwulff/countdown-go/internal/domain"
)

// Option keys, shared with the query string overrides.
const (
	KeyShowPixels     = "show-pixels"
	KeyRenderingMode  = "rendering-mode"
	KeyCondenseFish   = "condense-fish"
	KeyTwelveHourTime = "twelve-hour-time"
	KeyUseVantage     = "use-vantage"
	KeyCameraOpen     = "camera-open"
	KeySelfieFlip     = "selfie-flip"
	KeyCoverMode      = "cover-mode"
)

// Set is every option the display reads. Each store is its own handle;
// consumers subscribe to the ones they care about.
type Set struct {
	ShowPixels     *Store[bool]
	RenderingMode  *Store[domain.RenderMode]
	CondenseFish   *Store[bool]
	TwelveHourTime *Store[bool]
	UseVantage     *Store[bool]
	CameraOpen     *Store[bool]
	SelfieFlip     *Store[bool]
	CoverMode      *Store[bool]
}

// LoadSet loads every option from backend, applying overrides.
func LoadSet(ctx context.Context, backend Backend, overrides url.Values, logger *slog.Logger) *Set {
	loadBool := func(key string, def bool) *Store[bool] {
		return Load(ctx, key, def, backend, overrides, logger)
	}
	return &Set{
		ShowPixels:     loadBool(KeyShowPixels, false),
		RenderingMode:  Load(ctx, KeyRenderingMode, domain.RenderNormal, backend, overrides, logger),
		CondenseFish:   loadBool(KeyCondenseFish, false),
		TwelveHourTime: loadBool(KeyTwelveHourTime, false),
		UseVantage:     loadBool(KeyUseVantage, false),
		CameraOpen:     loadBool(KeyCameraOpen, false),
		SelfieFlip:     loadBool(KeySelfieFlip, true),
		CoverMode:      loadBool(KeyCoverMode, false),
	}
}

// Bools maps each boolean option key to its store.
func (s *Set) Bools() map[string]*Store[bool] {
	return map[string]*Store[bool]{
		KeyShowPixels:     s.ShowPixels,
		KeyCondenseFish:   s.CondenseFish,
		KeyTwelveHourTime: s.TwelveHourTime,
		KeyUseVantage:     s.UseVantage,
		KeyCameraOpen:     s.CameraOpen,
		KeySelfieFlip:     s.SelfieFlip,
		KeyCoverMode:      s.CoverMode,
	}
}

// Keys lists every option key in sorted order.
func (s *Set) Keys() []string {
	keys := []string{KeyRenderingMode}
	for k := range s.Bools() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Toggle flips a boolean option, or advances the render mode, and returns
// the new value.
func (s *Set) Toggle(key string) (any, error) {
	if key == KeyRenderingMode {
		next := s.RenderingMode.Get().Next()
		return next, s.RenderingMode.Set(next)
	}
	store, ok := s.Bools()[key]
	if !ok {
		return nil, fmt.Errorf("unknown option %q", key)
	}
	next := !store.Get()
	return next, store.Set(next)
}

// Snapshot returns the current value of every option by key.
func (s *Set) Snapshot() map[string]any {
	out := map[string]any{KeyRenderingMode: s.RenderingMode.Get()}
	for k, store := range s.Bools() {
		out[k] = store.Get()
	}
	return out
}

// OnChange calls fn with the key of any option that changes. The returned
// function unsubscribes from all of them.
func (s *Set) OnChange(fn func(key string)) (cancel func()) {
	cancels := []func(){
		s.RenderingMode.Subscribe(func(domain.RenderMode) { fn(KeyRenderingMode) }),
	}
	for k, store := range s.Bools() {
		key := k
		cancels = append(cancels, store.Subscribe(func(bool) { fn(key) }))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// Admin is the part of storage.Store used to inspect and clear stored
// options outside a running display.
type Admin interface {
	ListConfig(ctx context.Context) (map[string]string, error)
	DeleteConfig(ctx context.Context, key string) error
}

// known reports whether key names an option.
func known(key string) bool {
	switch key {
	case KeyShowPixels, KeyRenderingMode, KeyCondenseFish, KeyTwelveHourTime,
		KeyUseVantage, KeyCameraOpen, KeySelfieFlip, KeyCoverMode:
		return true
	}
	return false
}

// Stored returns the persisted value of every option key in store.
func Stored(ctx context.Context, store Admin) (map[string]string, error) {
	all, err := store.ListConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if known(k) {
			out[k] = v
		}
	}
	return out, nil
}

// Reset deletes the stored values of keys, or of every stored option when
// keys is empty, so the next run starts from the defaults. It returns the
// keys it removed in sorted order.
func Reset(ctx context.Context, store Admin, keys ...string) ([]string, error) {
	stored, err := Stored(ctx, store)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		for k := range stored {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	removed := make([]string, 0, len(keys))
	for _, k := range keys {
		if !known(k) {
			return removed, fmt.Errorf("unknown option %q", k)
		}
		if _, ok := stored[k]; !ok {
			continue
		}
		if err := store.DeleteConfig(ctx, k); err != nil {
			return removed, fmt.Errorf("delete option %s: %w", k, err)
		}
		removed = append(removed, k)
	}
	return removed, nil
}
