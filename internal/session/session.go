// Package session holds the per-player mutable state shared by a player's
// two Tunnels (spec.md §3, §5). Every field here is either owned by exactly
// one tunnel direction's worker (so plain fields suffice) or genuinely
// shared between both workers, in which case it is an atomic, an MPSC
// queue, or a small value behind its own mutex that is held only for the
// duration of a getter or setter, never across a tunnel read or write.
package session

import (
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// EncryptionContext is the external collaborator interface for one side of
// the transport upgrade (spec.md §6). Two live in a Session: one facing the
// client, one facing the upstream server.
type EncryptionContext interface {
	SetPublicKey(b []byte)
	PublicKey() []byte
	SetChallengeToken(b []byte)
	CheckChallengeToken(b []byte) bool
	EncryptChallengeToken() ([]byte, error)
	SetEncryptedSharedKey(b []byte)
	EncryptedSharedKey() []byte
	EncryptedInputStream(raw io.Reader) (io.Reader, error)
	EncryptedOutputStream(raw io.Writer) (io.Writer, error)
}

// Position is the player's last-known location (spec.md §3).
type Position struct {
	X, Y, Z, Stance float64
	Yaw, Pitch      float32
}

// ChestScratch is the coordinate the player is currently opening or placing,
// used by the chest sub-protocol (spec.md §4.3).
type ChestScratch struct {
	Valid             bool
	X, Y, Z           int32
	RequestedLock     bool
	RequestedUnlock   bool
	RequestedLockName string
}

// State is the coarse per-tunnel-pair protocol state from spec.md §4.2's
// state-machine table. It is informational only — the dispatcher reacts on
// opcode regardless of state, per the table's closing note.
type State int32

const (
	StateFresh State = iota
	StateNamed
	StateKeyExchange
	StateEncrypted
	StateInGame
)

// Session is shared by both of a player's Tunnels.
type Session struct {
	// Identity, set once by the 0x02 handshake hook and never again
	// (spec.md §3 invariant: "the Session's name is final for the life of
	// the connection").
	nameMu sync.Mutex
	name   string
	guest  bool

	// RemoteIP is the client's connecting address, set once at construction
	// and used to correlate a pending Authenticator request (spec.md §4.2,
	// 0x02 handshake).
	RemoteIP string

	EntityID  int32
	Dimension int32

	posMu sync.Mutex
	pos   Position

	groupMu sync.Mutex
	group   string
	muted   atomic.Bool

	robot atomic.Bool

	chestMu sync.Mutex
	chest   ChestScratch

	destroyedBlocks atomic.Int64

	// run and lastRead are read by both workers and by the acceptor's idle
	// watchdog; atomics avoid a lock on the per-packet hot path (spec.md §5,
	// §9).
	run      atomic.Bool
	lastRead atomic.Int64 // unix nanos

	kicked atomic.Bool
	kickMu sync.Mutex
	kickReason string

	state atomic.Int32

	ServerCrypt EncryptionContext
	ClientCrypt EncryptionContext

	// inbound is drained by the server→client tunnel (messages delivered to
	// the client); forward is drained by the client→server tunnel (messages
	// delivered to the server). Both are MPSC: either tunnel worker may
	// enqueue (producer), only the owning tunnel ever dequeues (consumer).
	inbound *chatQueue
	forward *chatQueue
}

// New creates a Session ready for a fresh connection (spec.md §3
// Lifecycle: "constructed-and-started semantics").
func New(remoteIP string) *Session {
	s := &Session{
		RemoteIP: remoteIP,
		inbound:  newChatQueue(),
		forward:  newChatQueue(),
	}
	s.run.Store(true)
	s.lastRead.Store(time.Now().UnixNano())
	return s
}

func (s *Session) Name() string {
	s.nameMu.Lock()
	defer s.nameMu.Unlock()
	return s.name
}

// SetName finalizes the player's name. Per spec.md's invariant this should
// be called at most once, from the 0x02 handshake hook; callers in
// internal/policy enforce the once-only discipline, this type just stores
// the value.
func (s *Session) SetName(name string, guest bool) {
	s.nameMu.Lock()
	defer s.nameMu.Unlock()
	s.name = name
	s.guest = guest
}

func (s *Session) IsGuest() bool {
	s.nameMu.Lock()
	defer s.nameMu.Unlock()
	return s.guest
}

func (s *Session) Position() Position {
	s.posMu.Lock()
	defer s.posMu.Unlock()
	return s.pos
}

func (s *Session) SetPosition(p Position) {
	s.posMu.Lock()
	defer s.posMu.Unlock()
	s.pos = p
}

func (s *Session) Group() string {
	s.groupMu.Lock()
	defer s.groupMu.Unlock()
	return s.group
}

func (s *Session) SetGroup(g string) {
	s.groupMu.Lock()
	defer s.groupMu.Unlock()
	s.group = g
}

func (s *Session) Muted() bool     { return s.muted.Load() }
func (s *Session) SetMuted(v bool) { s.muted.Store(v) }

func (s *Session) Robot() bool     { return s.robot.Load() }
func (s *Session) SetRobot(v bool) { s.robot.Store(v) }

func (s *Session) Chest() ChestScratch {
	s.chestMu.Lock()
	defer s.chestMu.Unlock()
	return s.chest
}

func (s *Session) SetChest(c ChestScratch) {
	s.chestMu.Lock()
	defer s.chestMu.Unlock()
	s.chest = c
}

func (s *Session) ClearChest() {
	s.SetChest(ChestScratch{})
}

func (s *Session) IncDestroyedBlocks() int64 { return s.destroyedBlocks.Add(1) }
func (s *Session) DestroyedBlocks() int64    { return s.destroyedBlocks.Load() }

// Touch records a successful packet read, for the idle watchdog (spec.md
// §4.5).
func (s *Session) Touch(now time.Time) { s.lastRead.Store(now.UnixNano()) }

// IsActive implements spec.md §4.5's rule: "isActive() returns true iff
// now - lastRead < 30s or the Session is a robot."
func (s *Session) IsActive(now time.Time) bool {
	if s.robot.Load() {
		return true
	}
	last := time.Unix(0, s.lastRead.Load())
	return now.Sub(last) < 30*time.Second
}

// Running reports whether the tunnel pair should keep working.
func (s *Session) Running() bool { return s.run.Load() }

// Stop clears the run flag; both workers observe it at their next loop
// head (spec.md §5).
func (s *Session) Stop() { s.run.Store(false) }

// Kick marks the session kicked with reason, to be delivered as a final
// 0xFF on tunnel exit (spec.md §4.5).
func (s *Session) Kick(reason string) {
	s.kickMu.Lock()
	s.kickReason = reason
	s.kickMu.Unlock()
	s.kicked.Store(true)
	s.Stop()
}

func (s *Session) Kicked() bool { return s.kicked.Load() }

func (s *Session) KickReason() string {
	s.kickMu.Lock()
	defer s.kickMu.Unlock()
	return s.kickReason
}

func (s *Session) State() State     { return State(s.state.Load()) }
func (s *Session) SetState(st State) { s.state.Store(int32(st)) }

// EnqueueInbound queues a chat message for delivery to the client, drained
// by the server→client tunnel after each packet (spec.md §4.3, §4.5).
func (s *Session) EnqueueInbound(msg string) { s.inbound.push(msg) }

// DrainInbound removes and returns all messages currently queued for the
// client, in FIFO order.
func (s *Session) DrainInbound() []string { return s.inbound.drainAll() }

// EnqueueForward queues a chat message for delivery to the server, drained
// by the client→server tunnel.
func (s *Session) EnqueueForward(msg string) { s.forward.push(msg) }

// DrainForward removes and returns all messages currently queued for the
// server, in FIFO order.
func (s *Session) DrainForward() []string { return s.forward.drainAll() }
