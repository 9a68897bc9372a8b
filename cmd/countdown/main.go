// Package main is the entry point for the countdown display.
package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/jwulff/countdown-go/internal/app"
	"github.com/jwulff/countdown-go/internal/display"
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/logging"
	"github.com/jwulff/countdown-go/internal/options"
	"github.com/jwulff/countdown-go/internal/pixoo"
	"github.com/jwulff/countdown-go/internal/render"
	"github.com/jwulff/countdown-go/internal/server"
	"github.com/jwulff/countdown-go/internal/storage"
	"github.com/jwulff/countdown-go/internal/storage/sqlite"
	"github.com/jwulff/countdown-go/internal/tui"
)

const defaultAddr = "localhost:8080"

// env holds what every command shares: the log, the store and the options.
type env struct {
	log   *logging.Logger
	store storage.Store
	opts  *options.Set
	args  []string
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		return
	}

	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		showUsage()
		return
	}

	e, err := setup(os.Args[2:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "preview":
		err = e.preview()
	case "png":
		err = e.writePNG()
	case "watch":
		err = e.watch(ctx)
	case "serve":
		err = e.serve(ctx)
	case "scan":
		err = e.scan(ctx)
	case "send":
		err = e.send(ctx)
	case "push":
		err = e.push(ctx)
	case "options":
		err = e.manageOptions(ctx)
	case "devices":
		err = e.devices(ctx)
	case "forget":
		err = e.forget(ctx)
	default:
		showUsage()
		return
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		e.log.Error("command failed", "command", cmd, "error", err)
		fmt.Printf("Error: %v\n", err)
		stop()
		e.close()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("Countdown - next fish in a glowing grid")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  countdown preview             - Show ASCII preview of the Pixoo frame")
	fmt.Println("  countdown png <file> [w h]    - Render the display to a PNG (--plain for hard-edged cells)")
	fmt.Println("  countdown watch               - Show the display in this terminal")
	fmt.Println("  countdown serve [addr]        - Serve the display to a browser (default " + defaultAddr + ")")
	fmt.Println("  countdown scan                - Scan for Pixoo devices and remember them")
	fmt.Println("  countdown send [IP]           - Send a single frame to a Pixoo")
	fmt.Println("  countdown push [IP]           - Keep a Pixoo up to date")
	fmt.Println("  countdown options             - List stored options")
	fmt.Println("  countdown options reset [key] - Forget stored options so defaults apply")
	fmt.Println("  countdown devices             - List remembered Pixoo devices")
	fmt.Println("  countdown forget <id>         - Forget a remembered Pixoo")
	fmt.Println()
	fmt.Println("Every command accepts -q <query> to override options for one run,")
	fmt.Println("e.g. -q 'show-pixels=true&rendering-mode=fire'.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  COUNTDOWN_DB         - SQLite database path (default in the user config dir)")
	fmt.Println("  COUNTDOWN_LOG_LEVEL  - debug, info, warn or error (default info)")
	fmt.Println("  COUNTDOWN_LOG_DIR    - Log directory (default in the user config dir)")
	fmt.Println("  COUNTDOWN_BASE_URL   - Server address used to open site links from watch")
	fmt.Println("  COUNTDOWN_PIXOO_BRIGHTNESS - Pixoo brightness 0-100 for send and push")
}

func setup(args []string) (*env, error) {
	rest, query := splitQuery(args)
	overrides, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parse -q: %w", err)
	}

	log := logging.New(os.Getenv("COUNTDOWN_LOG_LEVEL"), os.Getenv("COUNTDOWN_LOG_DIR"))

	path := os.Getenv("COUNTDOWN_DB")
	if path == "" {
		path = filepath.Join(logging.DefaultDir(), "countdown.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	store, err := sqlite.NewFileStore(path)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("opened database", "path", path)

	opts := options.LoadSet(context.Background(), store, overrides, log.Slog())
	return &env{log: log, store: store, opts: opts, args: rest}, nil
}

// takeFlag removes a boolean flag from args and reports whether it was set.
func takeFlag(args []string, name string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == name {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return rest, found
}

// splitQuery pulls "-q value" out of args.
func splitQuery(args []string) (rest []string, query string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "-q" && i+1 < len(args) {
			query = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return rest, query
}

func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
		e.store = nil
	}
	_ = e.log.Close()
}

func (e *env) arg(i int) string {
	if i < len(e.args) {
		return e.args[i]
	}
	return ""
}

func (e *env) newApp(cfg app.Config) *app.App {
	cfg.Options = e.opts
	cfg.Logger = e.log.Slog()
	return app.New(cfg)
}

func (e *env) preview() error {
	a := e.newApp(app.Config{Display: display.AdapterOptions{Mode: display.ModeTexture}})
	defer a.Close()

	frame, content := a.PixooFrame(time.Now())
	fmt.Printf("Next: %s in %s\n", content.Name, content.Label)
	fmt.Println()
	fmt.Println("64x64 Frame Preview:")
	fmt.Println()
	printFrameASCII(frame)
	fmt.Println()
	fmt.Println("Legend: █=bright ▓=medium ▒=dim ░=faint ·=very dim (space)=off")
	return nil
}

func (e *env) writePNG() error {
	var plain bool
	e.args, plain = takeFlag(e.args, "--plain")
	path := e.arg(0)
	if path == "" {
		return errors.New("output file required (countdown png <file> [w h])")
	}
	width, height := server.DefaultWidth, server.DefaultHeight
	if e.arg(1) != "" {
		var err error
		if width, err = strconv.Atoi(e.arg(1)); err != nil {
			return fmt.Errorf("width: %w", err)
		}
		if height, err = strconv.Atoi(e.arg(2)); err != nil {
			return fmt.Errorf("height: %w", err)
		}
	}

	mode := display.ModeShader
	if plain {
		mode = display.ModePlain
	}
	a := e.newApp(app.Config{Display: display.AdapterOptions{DevicePixelRatio: 2, Mode: mode}})
	defer a.Close()
	a.Resize(float64(width), float64(height))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, a.Adapter().Output()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	size := a.Adapter().Size()
	fmt.Printf("Wrote %s (%dx%d) - %s\n", path, size.ScaledWidth, size.ScaledHeight, a.Title())
	return nil
}

func (e *env) watch(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	logger := e.log.Slog()
	return tui.Run(ctx, screen, app.Config{
		Options:   e.opts,
		Navigator: app.NewBrowserNavigator(os.Getenv("COUNTDOWN_BASE_URL"), logger),
		Logger:    logger,
	})
}

func (e *env) serve(ctx context.Context) error {
	addr := e.arg(0)
	if addr == "" {
		addr = defaultAddr
	}

	s := server.New(server.Config{
		App: app.Config{
			Options: e.opts,
			Display: display.AdapterOptions{DevicePixelRatio: 2},
		},
		Store:  e.store,
		Logger: e.log.Slog(),
	})
	defer s.Close()

	fmt.Printf("Serving on http://%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return s.Run(ctx, addr)
}

func (e *env) scan(ctx context.Context) error {
	fmt.Println("Scanning for Pixoo devices on local network...")
	fmt.Println()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	devices, err := pixoo.ScanForDevices(ctx, func(current, total int) {
		pct := current * 100 / total
		bar := strings.Repeat("█", pct/5) + strings.Repeat("░", 20-pct/5)
		fmt.Printf("\r  [%s] %d%% (%d/%d)", bar, pct, current, total)
	})
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Println()
	if len(devices) == 0 {
		fmt.Println("No Pixoo devices found.")
		fmt.Println()
		fmt.Println("Make sure your Pixoo is:")
		fmt.Println("  1. Powered on")
		fmt.Println("  2. Connected to the same WiFi network")
		fmt.Println("  3. Not in sleep mode")
		return nil
	}

	if err := pixoo.SaveDevices(ctx, e.store, devices); err != nil {
		return err
	}
	fmt.Printf("Found %d device(s):\n", len(devices))
	fmt.Println()
	for i, device := range devices {
		fmt.Printf("  %d. %s - %s\n", i+1, device.Name, device.IP)
	}
	fmt.Println()
	fmt.Println("To keep the first one up to date:")
	fmt.Println("  countdown push")
	return nil
}

// device returns a client for the IP argument, or for the most recently
// seen device when none is given.
func (e *env) device(ctx context.Context) (*pixoo.Client, error) {
	ip := e.arg(0)
	if ip == "" {
		d, err := pixoo.LastSeenDevice(ctx, e.store)
		if storage.IsNotFound(err) {
			return nil, errors.New("no known Pixoo; pass an IP or run countdown scan")
		}
		if err != nil {
			return nil, err
		}
		ip = d.IP
	}

	client := pixoo.NewClient(ip)
	reachCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if !client.IsReachable(reachCtx) {
		return nil, fmt.Errorf("cannot reach Pixoo at %s", ip)
	}

	if raw := os.Getenv("COUNTDOWN_PIXOO_BRIGHTNESS"); raw != "" {
		brightness, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("COUNTDOWN_PIXOO_BRIGHTNESS: %w", err)
		}
		if err := client.SetBrightness(reachCtx, brightness); err != nil {
			return nil, fmt.Errorf("set brightness: %w", err)
		}
	}
	return client, nil
}

func (e *env) send(ctx context.Context) error {
	client, err := e.device(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sending frame to Pixoo at %s...\n", client.IP)

	a := e.newApp(app.Config{Display: display.AdapterOptions{Mode: display.ModeTexture}})
	defer a.Close()
	frame, _ := a.PixooFrame(time.Now())

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.SendFrame(ctx, frame); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	fmt.Println("Frame sent successfully!")
	return nil
}

func (e *env) push(ctx context.Context) error {
	client, err := e.device(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Keeping Pixoo at %s up to date\n", client.IP)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	a := e.newApp(app.Config{Display: display.AdapterOptions{Mode: display.ModeTexture}})
	defer a.Close()

	return a.RunPixoo(ctx, client, func(c render.PixooContent, err error) {
		now := time.Now().Format("15:04:05")
		if err != nil {
			fmt.Printf("[%s] Error: %v\n", now, err)
			return
		}
		fmt.Printf("[%s] %s in %s\n", now, c.Name, c.Label)
	})
}

func (e *env) manageOptions(ctx context.Context) error {
	switch e.arg(0) {
	case "":
		stored, err := options.Stored(ctx, e.store)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(stored))
		for k := range stored {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Printf("  %-18s %s\n", k, stored[k])
		}
		return nil
	case "reset":
		removed, err := options.Reset(ctx, e.store, e.args[1:]...)
		if err != nil {
			return err
		}
		fmt.Printf("Reset %d option(s)\n", len(removed))
		return nil
	default:
		return fmt.Errorf("unknown options command %q (countdown options [reset [key...]])", e.arg(0))
	}
}

func (e *env) devices(ctx context.Context) error {
	devices, err := e.store.GetDevices(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No remembered devices. Run countdown scan.")
		return nil
	}
	for _, d := range devices {
		fmt.Printf("  %-16s %-20s last seen %s\n", d.ID, d.Name, d.LastSeen.Format(time.DateTime))
	}
	return nil
}

func (e *env) forget(ctx context.Context) error {
	id := e.arg(0)
	if id == "" {
		return errors.New("device id required (countdown forget <id>)")
	}
	d, err := pixoo.Forget(ctx, e.store, id)
	if storage.IsNotFound(err) {
		return fmt.Errorf("no remembered device %q", id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Forgot %s (%s)\n", d.Name, d.IP)
	return nil
}

// printFrameASCII renders a top-down frame as ASCII art.
func printFrameASCII(frame *domain.Frame) {
	fmt.Print("  ┌")
	fmt.Print(strings.Repeat("─", frame.Width))
	fmt.Println("┐")

	for y := 0; y < frame.Height; y++ {
		fmt.Printf("%2d│", y)
		for x := 0; x < frame.Width; x++ {
			fmt.Print(shade(frame.GetPixel(x, y)))
		}
		fmt.Println("│")
	}

	fmt.Print("  └")
	fmt.Print(strings.Repeat("─", frame.Width))
	fmt.Println("┘")
}

func shade(pixel *domain.RGB) string {
	if pixel == nil {
		return " "
	}
	brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3
	switch {
	case brightness > 200:
		return "█"
	case brightness > 150:
		return "▓"
	case brightness > 100:
		return "▒"
	case brightness > 50:
		return "░"
	case brightness > 10:
		return "·"
	default:
		return " "
	}
}
