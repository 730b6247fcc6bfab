// Package ratelimit implements per-client admission control: a one-minute
// sliding window with a sub-second burst gate, in-memory and self-expiring.
package ratelimit

import (
	"net"
	"strings"
	"sync"
	"time"
)

const (
	window     = time.Minute
	burstGap   = time.Second
	staleAfter = 2 * time.Minute
	// Above this many tracked clients the triggering request sweeps stale
	// entries inline. Approximate LRU via window age, not strict.
	maxTrackedClients = 10000
)

type clientState struct {
	mu          sync.Mutex
	windowStart time.Time
	lastRequest time.Time
	count       int
}

// Limiter tracks request counts per client id. The registry map has its
// own lock; each client's read-modify-write runs under that client's lock
// so unrelated clients never contend.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientState

	rpm   int
	burst int
	now   func() time.Time
}

func New(rpm, burst int) *Limiter {
	return &Limiter{
		clients: make(map[string]*clientState),
		rpm:     rpm,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow decides admission for one request from clientID.
func (l *Limiter) Allow(clientID string) bool {
	state, sweep := l.state(clientID)
	if sweep {
		l.sweep()
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	now := l.now()

	// Window restart, not a rolling average. Edge bursts at the boundary
	// are accepted.
	if now.Sub(state.windowStart) >= window {
		state.windowStart = now
		state.count = 0
	}

	// Sub-second flood gate, independent of the remaining minute budget.
	if state.count >= l.burst && now.Sub(state.lastRequest) < burstGap {
		return false
	}

	if state.count >= l.rpm {
		return false
	}

	state.count++
	state.lastRequest = now
	return true
}

// Tracked returns the number of client entries currently held.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) state(clientID string) (*clientState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.clients[clientID]
	if !ok {
		s = &clientState{windowStart: l.now(), lastRequest: l.now()}
		l.clients[clientID] = s
	}
	return s, len(l.clients) > maxTrackedClients
}

// sweep drops entries whose window started more than two minutes ago. It
// snapshots the registry first so other clients' updates are not blocked
// while entries are inspected.
func (l *Limiter) sweep() {
	type entry struct {
		key   string
		state *clientState
	}

	l.mu.Lock()
	snapshot := make([]entry, 0, len(l.clients))
	for k, s := range l.clients {
		snapshot = append(snapshot, entry{k, s})
	}
	l.mu.Unlock()

	cutoff := l.now().Add(-staleAfter)
	stale := make([]string, 0)
	for _, e := range snapshot {
		e.state.mu.Lock()
		old := e.state.windowStart.Before(cutoff)
		e.state.mu.Unlock()
		if old {
			stale = append(stale, e.key)
		}
	}

	l.mu.Lock()
	for _, k := range stale {
		delete(l.clients, k)
	}
	l.mu.Unlock()
}

// ClientKey derives the rate-limit key for a request: the first entry of
// the forwarded-for header when present, else the connection address.
// The header is trusted as-is; spoofing it is a documented limitation.
func ClientKey(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := forwardedFor
		if idx := strings.Index(first, ","); idx >= 0 {
			first = first[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
