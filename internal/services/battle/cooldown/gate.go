// Package cooldown rate-limits classes of actions with check-and-set gates.
package cooldown

import (
	"log"
	"sync"
	"time"
)

// Gate tracks the next allowed time per key for one action class.
//
// Check is a side-effecting read: a granted check pushes the key's next
// allowed time forward by the gate duration.
type Gate struct {
	name     string
	duration time.Duration
	clock    func() time.Time

	mu   sync.Mutex
	next map[string]time.Time
}

// NewGate creates a gate. A zero duration disables the gate. A nil clock
// uses time.Now.
func NewGate(name string, duration time.Duration, clock func() time.Time) *Gate {
	if clock == nil {
		clock = time.Now
	}
	return &Gate{
		name:     name,
		duration: duration,
		clock:    clock,
		next:     map[string]time.Time{},
	}
}

// Name returns the action class this gate limits.
func (g *Gate) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Duration returns the configured cooldown.
func (g *Gate) Duration() time.Duration {
	if g == nil {
		return 0
	}
	return g.duration
}

// Check reports whether an action under key may run now. When it may, the
// key is put on cooldown before Check returns.
func (g *Gate) Check(key string) bool {
	if g == nil || g.duration <= 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	nextAllowed, ok := g.next[key]
	if !ok {
		nextAllowed = now
	}
	if !now.Before(nextAllowed) {
		g.next[key] = now.Add(g.duration)
		log.Printf("update %s cooldown for %q until %s", g.name, key, g.next[key].Format("15:04:05"))
		return true
	}

	log.Printf("%s cooldown for %q expires in %s", g.name, key, nextAllowed.Sub(now).Round(time.Second))
	return false
}

// NextAllowed returns the stored next allowed time for key, or the zero
// time if the key has never been granted.
func (g *Gate) NextAllowed(key string) time.Time {
	if g == nil {
		return time.Time{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next[key]
}
