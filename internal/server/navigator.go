package server

import "sync"

// Action is where a click asked the page to go.
type Action struct {
	Open   string `json:"open,omitempty"`
	NewTab bool   `json:"newTab,omitempty"`
	Hash   string `json:"hash,omitempty"`
}

// Navigator records navigation requests so the click response can carry
// them to the browser.
type Navigator struct {
	mu   sync.Mutex
	last Action
}

func (n *Navigator) Open(url string, newTab bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last.Open, n.last.NewTab = url, newTab
}

func (n *Navigator) SetHash(slug string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last.Hash = slug
}

// Take returns the recorded action and clears it.
func (n *Navigator) Take() Action {
	n.mu.Lock()
	defer n.mu.Unlock()
	a := n.last
	n.last = Action{}
	return a
}
