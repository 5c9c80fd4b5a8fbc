// Package collab declares the external collaborator interfaces spec.md §1
// and §6 keep out of the core: command execution, the
// authenticator, persistent registries, and the authoring of colorized /
// translated chat. The core (internal/policy, internal/tunnel) depends only
// on these interfaces; this package also ships minimal in-memory reference
// implementations used by tests and cmd/minewatch — spec.md explicitly
// scopes real persistence and real auth out of the core, so there is
// nothing further to build here.
package collab

import "github.com/Dannysek/SimpleServer/internal/session"

// Coordinate is a block position in world space.
type Coordinate struct {
	X, Y, Z int32
}

// Neighbors returns the six block positions sharing a face with c, the
// relation spec.md §4.3's chest sub-protocol calls "adjacent."
func (c Coordinate) Neighbors() [6]Coordinate {
	return [6]Coordinate{
		{c.X + 1, c.Y, c.Z}, {c.X - 1, c.Y, c.Z},
		{c.X, c.Y + 1, c.Z}, {c.X, c.Y - 1, c.Z},
		{c.X, c.Y, c.Z + 1}, {c.X, c.Y, c.Z - 1},
	}
}

// ChestEntry is one row of the chest registry (spec.md §3).
type ChestEntry struct {
	Coord       Coordinate
	Locked      bool
	Owner       string // empty when open (unlocked but registered)
	DisplayName string
}

// ChestRegistry is the persistent chest-lock store (spec.md §1, §3, §4.3).
// Implementations must serialize mutations and persist on every lock
// transition. The hooks in internal/policy discard the errors these methods
// return: a failed save is neither logged nor fatal.
type ChestRegistry interface {
	Lookup(c Coordinate) (ChestEntry, bool)
	IsLocked(c Coordinate) bool
	CanOpen(player string, c Coordinate) bool
	Adjacent(c Coordinate) (ChestEntry, bool)
	AddOpen(c Coordinate) error
	GiveLock(c Coordinate, owner, displayName string) error
	Release(c Coordinate) error
	Unlock(c Coordinate) error
	Rename(c Coordinate, displayName string) error
}

// BotRegistry answers whether a named player is a registered bot, used to
// suppress spawn/chat noise for them (spec.md §4.2, opcodes 0x03/0x14).
type BotRegistry interface {
	IsBot(name string) bool
}

// PopulationCounter reports the current online player count for the
// server-list ping rewrite (spec.md §4.2, 0xFF disconnect; §8 scenario S6).
type PopulationCounter interface {
	Count() int
}

// EntityDirectory resolves a live entity id to the player name occupying it,
// needed by the 0x07 use-entity hook to find out whether a targeted entity
// is a god-mode player (spec.md §4.2). Populated by the host from each
// Session's EntityID as players join; out of scope for a single Session, so
// it lives alongside the other collaborator interfaces.
type EntityDirectory interface {
	PlayerNameByEntityID(id int32) (name string, ok bool)
}

// BlockAction distinguishes the three permission checks spec.md §4.2
// describes for dig/place.
type BlockAction int

const (
	ActionUse BlockAction = iota
	ActionDestroy
	ActionPlace
)

// PermissionConfig computes block-level permission for a player, group, and
// coordinate, optionally given the item in hand (spec.md §4.2, 0x0E/0x0F).
type PermissionConfig interface {
	Allow(group string, action BlockAction, coord Coordinate, itemID int16) bool
	// InstantDestroy reports whether dig-finish packets should be doubled
	// (spec.md §4.2, 0x0E).
	InstantDestroy() bool
	// GodMode reports whether the named player currently has god mode,
	// shielding them from 0x07 use-entity targeting (spec.md §4.2).
	GodMode(player string) bool
}

// CommandProcessor is invoked as a single call with the full command text
// (spec.md §1: "invoked as a single call with a message"). A false ok means
// the processor consumed the command and nothing should reach the server.
type CommandProcessor interface {
	Process(playerName string, text string) (rewritten string, ok bool)
}

// EventHost is notified of coarse lifecycle events when config.EnableEvents
// is set (spec.md §6).
type EventHost interface {
	PlayerJoined(name string)
	PlayerLeft(name string, reason string)
}

// Translator renders a localized system message, used for join/left
// notifications decoded out of structured chat packets (spec.md §4.2).
type Translator interface {
	Translate(key string, args ...string) string
}

// AuthRequest is a pending upstream auth completion, keyed by the
// connecting IP (spec.md §6).
type AuthRequest struct {
	Name string
}

// Authenticator is the external collaborator for the 0x02 handshake and the
// 0xFC/0xFD encryption exchange (spec.md §6).
type Authenticator interface {
	GetAuthRequest(ip string) (AuthRequest, bool)
	CompleteLogin(req AuthRequest, sess *session.Session) error
	GetFreeGuestName() string
	AllowGuestJoin() bool
	UseCustAuth(sess *session.Session) bool
	OnlineAuthenticate(sess *session.Session) error
	IsMinecraftUp() bool
}
