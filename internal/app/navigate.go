package app

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pkg/browser"

	"github.com/jwulff/countdown-go/internal/logging"
)

// BrowserNavigator opens entry links in the system browser. Site-relative
// links are resolved against Base, the address of the preview server.
type BrowserNavigator struct {
	Base   string
	logger *slog.Logger
	open   func(url string) error

	mu   sync.Mutex
	hash string
}

// NewBrowserNavigator returns a navigator that opens links with the
// desktop's default browser.
func NewBrowserNavigator(base string, logger *slog.Logger) *BrowserNavigator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BrowserNavigator{Base: base, logger: logger, open: browser.OpenURL}
}

// Open opens url. A browser has no notion of "same tab" from outside, so
// newTab only affects logging.
func (n *BrowserNavigator) Open(url string, newTab bool) {
	if strings.HasPrefix(url, "/") {
		if n.Base == "" {
			n.logger.Info("no server to open site link", "url", url)
			return
		}
		url = strings.TrimSuffix(n.Base, "/") + url
	}
	n.logger.Info("opening link", "url", url, "newTab", newTab)
	if err := n.open(url); err != nil {
		n.logger.Warn("failed to open link", "url", url, "error", err)
	}
}

// SetHash records the deep link for an entry.
func (n *BrowserNavigator) SetHash(slug string) {
	n.mu.Lock()
	n.hash = slug
	n.mu.Unlock()
	n.logger.Info("deep link", "hash", "#"+slug)
}

// Hash returns the last deep link set.
func (n *BrowserNavigator) Hash() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hash
}
