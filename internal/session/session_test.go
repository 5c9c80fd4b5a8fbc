package session

import (
	"testing"
	"time"
)

// TestIsActiveIdleWindow implements spec.md §4.5's watchdog rule: active
// within the 30s window, inactive past it, always active once marked robot.
func TestIsActiveIdleWindow(t *testing.T) {
	s := New("127.0.0.1")
	now := time.Now()
	s.Touch(now)

	if !s.IsActive(now.Add(10 * time.Second)) {
		t.Fatal("expected active within the 30s window")
	}
	if s.IsActive(now.Add(31 * time.Second)) {
		t.Fatal("expected inactive past the 30s window")
	}

	s.SetRobot(true)
	if !s.IsActive(now.Add(time.Hour)) {
		t.Fatal("expected a robot session to always read as active")
	}
}

// TestKickStopsSession implements spec.md §4.5's kick contract: Kick
// records the reason, flips Kicked, and stops the run flag so both workers
// observe it at their next loop head.
func TestKickStopsSession(t *testing.T) {
	s := New("127.0.0.1")
	if !s.Running() {
		t.Fatal("expected a fresh session to be running")
	}

	s.Kick("bye")

	if s.Running() {
		t.Fatal("expected Kick to stop the session")
	}
	if !s.Kicked() {
		t.Fatal("expected Kicked() to report true")
	}
	if s.KickReason() != "bye" {
		t.Fatalf("got reason %q, want %q", s.KickReason(), "bye")
	}
}

// TestChatQueuesAreFIFOAndDirectional implements spec.md §4.3: inbound and
// forward are independent FIFOs, each drained exactly once.
func TestChatQueuesAreFIFOAndDirectional(t *testing.T) {
	s := New("127.0.0.1")
	s.EnqueueInbound("to-client-1")
	s.EnqueueInbound("to-client-2")
	s.EnqueueForward("to-server-1")

	inbound := s.DrainInbound()
	if len(inbound) != 2 || inbound[0] != "to-client-1" || inbound[1] != "to-client-2" {
		t.Fatalf("unexpected inbound order: %v", inbound)
	}
	if more := s.DrainInbound(); more != nil {
		t.Fatalf("expected inbound to be empty after drain, got %v", more)
	}

	forward := s.DrainForward()
	if len(forward) != 1 || forward[0] != "to-server-1" {
		t.Fatalf("unexpected forward contents: %v", forward)
	}
}

// TestNameIsFinalOnceSet documents the invariant callers in internal/policy
// rely on: SetName's value is whatever was last stored, read back verbatim.
func TestNameIsFinalOnceSet(t *testing.T) {
	s := New("10.0.0.5")
	s.SetName("Steve", false)
	if s.Name() != "Steve" || s.IsGuest() {
		t.Fatalf("got name=%q guest=%v", s.Name(), s.IsGuest())
	}
}
