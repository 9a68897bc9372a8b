// Package server shows the countdown in a browser. The page polls a PNG of
// the glowing grid and forwards pointer and key events back to the app.
package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image/png"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jwulff/countdown-go/internal/app"
	"github.com/jwulff/countdown-go/internal/display"
	"github.com/jwulff/countdown-go/internal/logging"
	"github.com/jwulff/countdown-go/internal/schedule"
	"github.com/jwulff/countdown-go/internal/storage"
)

const (
	// DefaultWidth and DefaultHeight size the display before the first
	// frame request.
	DefaultWidth  = 1280
	DefaultHeight = 800

	maxDimension    = 4096
	frameMaxAge     = time.Minute
	shutdownTimeout = 5 * time.Second
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

var errNoOutput = errors.New("display has no output image")

// Config configures a Server.
type Config struct {
	// App configures the countdown. Its Navigator is replaced so clicks are
	// reported back to the page.
	App app.Config
	// Store caches encoded frames. It may be nil.
	Store  storage.Store
	Logger *slog.Logger
}

// Server serves the countdown page and its frames.
type Server struct {
	app     *app.App
	nav     *Navigator
	store   storage.Store
	logger  *slog.Logger
	clock   func() time.Time
	entries []schedule.Entry

	// pointer follows the adapter's cursor callback.
	pointer atomic.Bool

	// mu serialises resizes and clicks so a request sees its own layout.
	mu            sync.Mutex
	width, height int
	lastPrune     time.Time
}

// New builds the app behind the server and lays it out at the default size.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		nav:     &Navigator{},
		store:   cfg.Store,
		logger:  logger,
		clock:   cfg.App.Clock,
		entries: cfg.App.Entries,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.entries == nil {
		s.entries = schedule.Entries
	}

	ac := cfg.App
	ac.Navigator = s.nav
	if ac.Logger == nil {
		ac.Logger = logger
	}
	if ac.Display.Mode == display.ModeTexture {
		ac.Display.Mode = display.ModeShader
	}
	onCursor := ac.Display.OnCursor
	ac.Display.OnCursor = func(pointer bool) {
		s.pointer.Store(pointer)
		if onCursor != nil {
			onCursor(pointer)
		}
	}
	s.app = app.New(ac)
	s.resize(DefaultWidth, DefaultHeight)
	return s
}

// App returns the countdown behind the server.
func (s *Server) App() *app.App { return s.app }

// Close stops the app.
func (s *Server) Close() { s.app.Close() }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /frame.png", s.handleFrame)
	mux.HandleFunc("GET /zones", s.handleZones)
	mux.HandleFunc("GET /options", s.handleOptions)
	mux.HandleFunc("POST /options/{key}", s.handleToggle)
	mux.HandleFunc("POST /keys/{key}", s.handleKey)
	mux.HandleFunc("POST /pointer", s.handlePointer)
	mux.HandleFunc("POST /blur", s.handleBlur)
	mux.HandleFunc("POST /click", s.handleClick)
	mux.HandleFunc("GET "+schedule.VantagePath, s.handleVantage)
	mux.HandleFunc("GET /vantage", s.handleVantage)
	return mux
}

// Run serves on addr and regenerates the display every second until ctx
// is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := s.app.RunTicker(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.app.Resize(float64(width), float64(height))
	s.width, s.height = width, height
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title  string
		Legend []string
	}{s.app.Title(), s.app.Legend()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn("failed to render index", "error", err)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	width, err := dimension(r, "w", DefaultWidth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(r, "h", DefaultHeight)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.resize(width, height)
	data, err := s.encodeFrame(r.Context(), width, height)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to encode frame", "error", err)
		http.Error(w, "failed to render frame", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Countdown-Title", s.app.Title())
	_, _ = w.Write(data)
}

// encodeFrame returns the PNG for the current render, from the frame cache
// when another request already encoded the same version.
func (s *Server) encodeFrame(ctx context.Context, width, height int) ([]byte, error) {
	now := s.clock()
	img, version := s.app.Adapter().OutputVersion()
	if img == nil {
		return nil, errNoOutput
	}
	key := fmt.Sprintf("frame:%dx%d:%d", width, height, version)

	if s.store != nil {
		cached, err := s.store.GetCachedFrame(ctx, key)
		switch {
		case err == nil && cached.Fresh(now, frameMaxAge):
			return cached.FrameData, nil
		case err != nil && !storage.IsNotFound(err):
			s.logger.Warn("failed to read frame cache", "key", key, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	if s.store != nil {
		s.cache(ctx, key, buf.Bytes(), now)
	}
	return buf.Bytes(), nil
}

func (s *Server) cache(ctx context.Context, key string, data []byte, now time.Time) {
	frame := &storage.CachedFrame{
		Key:         key,
		FrameData:   data,
		ContentType: "image/png",
		GeneratedAt: now,
	}
	if err := s.store.CacheFrame(ctx, frame); err != nil {
		s.logger.Warn("failed to cache frame", "key", key, "error", err)
	}

	if now.Sub(s.lastPrune) < frameMaxAge {
		return
	}
	s.lastPrune = now
	n, err := s.store.PruneFrames(ctx, now.Add(-frameMaxAge))
	if err != nil {
		s.logger.Warn("failed to prune frame cache", "error", err)
		return
	}
	s.logger.Debug("pruned frame cache", "removed", n)
}

type zone struct {
	Index     int  `json:"index"`
	Top       int  `json:"top"`
	Left      int  `json:"left"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Clickable bool `json:"clickable"`
	Active    bool `json:"active"`
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	adapter := s.app.Adapter()
	active := adapter.Active()
	zones := adapter.Zones()

	out := make([]zone, len(zones))
	for i, z := range zones {
		b := z.BoundingBox
		out[i] = zone{
			Index:     i,
			Top:       b.Top,
			Left:      b.Left,
			Width:     b.Width,
			Height:    b.Height,
			Clickable: z.Clickable(),
			Active:    i == active,
		}
	}
	s.writeJSON(w, out)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.app.Options().Snapshot())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	opts := s.app.Options()
	if !slices.Contains(opts.Keys(), key) {
		http.Error(w, fmt.Sprintf("unknown option %q", key), http.StatusNotFound)
		return
	}

	value, err := opts.Toggle(key)
	if err != nil {
		s.logger.Error("failed to toggle option", "key", key, "error", err)
		http.Error(w, "failed to store option", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]any{key: value})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if utf8.RuneCountInString(key) != 1 {
		http.Error(w, "key must be a single character", http.StatusBadRequest)
		return
	}
	k, _ := utf8.DecodeRuneInString(key)

	status, ok := s.app.Press(k)
	if !ok {
		http.Error(w, fmt.Sprintf("no binding for %q", key), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, status)
}

type pointerResponse struct {
	Changed bool `json:"changed"`
	// Pointer is true while the pointer is over a clickable zone.
	Pointer bool `json:"pointer"`
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	x, y, err := point(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	changed := s.app.Adapter().PointerMove(x, y)
	pointer := s.pointer.Load()
	s.mu.Unlock()

	s.writeJSON(w, pointerResponse{Changed: changed, Pointer: pointer})
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	changed := s.app.Adapter().PointerBlur()
	s.mu.Unlock()
	s.writeJSON(w, pointerResponse{Changed: changed})
}

type clickResponse struct {
	Clicked bool `json:"clicked"`
	Action
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	x, y, err := point(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nav.Take()
	clicked := s.app.Adapter().PointerClick(x, y)
	action := s.nav.Take()
	s.mu.Unlock()

	s.writeJSON(w, clickResponse{Clicked: clicked, Action: action})
}

func (s *Server) handleVantage(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	target, found := schedule.VantageTarget(s.entries, site)
	if !found {
		s.logger.Debug("unknown vantage site", "site", site)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func dimension(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxDimension {
		return 0, fmt.Errorf("%s must be between 1 and %d", name, maxDimension)
	}
	return n, nil
}

func point(r *http.Request) (x, y float64, err error) {
	q := r.URL.Query()
	x, err = strconv.ParseFloat(q.Get("x"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	y, err = strconv.ParseFloat(q.Get("y"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return x, y, nil
}
