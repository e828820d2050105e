package cooldown

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestGateGrantThenDeny(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	gate := NewGate("execute_action", 5*time.Second, clock.Now)

	first := gate.Check("0")
	second := gate.Check("0")
	if !first || second {
		t.Fatalf("checks = (%v, %v), want (true, false)", first, second)
	}
}

func TestGateGrantsAfterDuration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	gate := NewGate("execute_action", 5*time.Second, clock.Now)

	if !gate.Check("0") {
		t.Fatal("expected first check to be granted")
	}
	clock.Advance(4 * time.Second)
	if gate.Check("0") {
		t.Fatal("expected check before cooldown expiry to be denied")
	}
	clock.Advance(time.Second)
	if !gate.Check("0") {
		t.Fatal("expected check at cooldown expiry to be granted")
	}
	want := clock.now.Add(5 * time.Second)
	if got := gate.NextAllowed("0"); !got.Equal(want) {
		t.Fatalf("next allowed = %v, want %v", got, want)
	}
}

func TestGateZeroDurationAlwaysGrants(t *testing.T) {
	gate := NewGate("disabled", 0, nil)
	for i := 0; i < 3; i++ {
		if !gate.Check("0") {
			t.Fatalf("check %d denied, want granted", i)
		}
	}
	if got := gate.NextAllowed("0"); !got.IsZero() {
		t.Fatalf("next allowed = %v, want zero", got)
	}
}

func TestGateKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	gate := NewGate("execute_action", time.Minute, clock.Now)

	if !gate.Check("a") {
		t.Fatal("expected key a to be granted")
	}
	if !gate.Check("b") {
		t.Fatal("expected key b to be granted")
	}
	if gate.Check("a") {
		t.Fatal("expected key a to be on cooldown")
	}
}

func TestGatesDoNotShareState(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	actions := NewGate("execute_action", time.Minute, clock.Now)
	loots := NewGate("loot_action", time.Minute, clock.Now)

	if !actions.Check("0") {
		t.Fatal("expected action gate grant")
	}
	if !loots.Check("0") {
		t.Fatal("expected loot gate grant despite action gate cooldown")
	}
}

func TestNilGateGrants(t *testing.T) {
	var gate *Gate
	if !gate.Check("0") {
		t.Fatal("expected nil gate to grant")
	}
}
