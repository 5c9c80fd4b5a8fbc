package policy

import (
	"bytes"
	"testing"

	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/config"
	"github.com/Dannysek/SimpleServer/internal/grammar"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

func testCollaborators() Collaborators {
	return Collaborators{
		Chests:      collab.NewMemoryChestRegistry(nil),
		Bots:        collab.NewMemoryBotRegistry(),
		Entities:    collab.NewMemoryEntityDirectory(),
		Population:  &collab.MemoryPopulationCounter{},
		Permissions: collab.NewAllowAllPermissions(),
		Commands:    passthroughCommands{},
		Events:      collab.NoopEventHost{},
		Translator:  collab.PassthroughTranslator{},
		Auth:        collab.NewMemoryAuthenticator(true),
	}
}

type passthroughCommands struct{}

func (passthroughCommands) Process(_ string, text string) (string, bool) { return text, true }

func runHook(t *testing.T, hook grammar.Hook, op byte, body []byte) []byte {
	t.Helper()
	r := wire.NewReader(bytes.NewReader(body))
	var out bytes.Buffer
	w := wire.NewWriter(&out)
	if err := hook(op, r, w); err != nil {
		t.Fatalf("hook: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return out.Bytes()
}

// TestMuteDropsChatAndNotifies implements spec.md §8 property 7: a muted
// player's non-command chat is dropped and a red notice is queued for them,
// instead of reaching the server.
func TestMuteDropsChatAndNotifies(t *testing.T) {
	sess := session.New("127.0.0.1")
	sess.SetName("Alice", false)
	sess.SetMuted(true)
	cfg := &config.Config{CommandPrefix: "/"}
	deps := testCollaborators()

	hook := chatHook(ClientToServer, sess, cfg, deps)
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteUTF16(wire.NewUTF16String("hello there"))
	w.Flush()

	got := runHook(t, hook, byte(grammar.OpChat), buf.Bytes())
	if len(got) != 0 {
		t.Fatalf("expected nothing forwarded while muted, got %x", got)
	}

	queued := sess.DrainInbound()
	if len(queued) != 1 || queued[0] != redNotice+"You are muted! Your message was not sent." {
		t.Fatalf("expected a mute notice queued, got %v", queued)
	}
}

// TestMuteAllowsCommands ensures a muted player's command still reaches the
// server (spec.md §4.2, 0x03: muting gates chat, not commands).
func TestMuteAllowsCommands(t *testing.T) {
	sess := session.New("127.0.0.1")
	sess.SetMuted(true)
	cfg := &config.Config{CommandPrefix: "/"}
	deps := testCollaborators()

	hook := chatHook(ClientToServer, sess, cfg, deps)
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteUTF16(wire.NewUTF16String("/spawn"))
	w.Flush()

	got := runHook(t, hook, byte(grammar.OpChat), buf.Bytes())
	if len(got) == 0 {
		t.Fatal("expected the command to be forwarded despite mute")
	}
}

// TestGodModeShieldsFromUseEntity implements spec.md §8 property 9: a
// use-entity packet targeting a god-mode player is dropped entirely.
func TestGodModeShieldsFromUseEntity(t *testing.T) {
	sess := session.New("127.0.0.1")
	deps := testCollaborators()
	entities := deps.Entities.(*collab.MemoryEntityDirectory)
	perms := deps.Permissions.(*collab.AllowAllPermissions)
	entities.Set(42, "Bob")
	perms.SetGodMode("Bob", true)

	hook := useEntityHook(sess, deps)
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteI32(1)
	w.WriteI32(42)
	w.WriteBool(true)
	w.Flush()

	got := runHook(t, hook, byte(grammar.OpUseEntity), buf.Bytes())
	if len(got) != 0 {
		t.Fatalf("expected the attack to be dropped, got %x", got)
	}
}

// TestUseEntityForwardsNonGodTarget is the negative case: a normal player
// target passes through unmodified.
func TestUseEntityForwardsNonGodTarget(t *testing.T) {
	sess := session.New("127.0.0.1")
	deps := testCollaborators()
	entities := deps.Entities.(*collab.MemoryEntityDirectory)
	entities.Set(42, "Bob")

	hook := useEntityHook(sess, deps)
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteI32(1)
	w.WriteI32(42)
	w.WriteBool(true)
	w.Flush()
	body := buf.Bytes()

	got := runHook(t, hook, byte(grammar.OpUseEntity), body)
	want := append([]byte{byte(grammar.OpUseEntity)}, body...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// TestChestAdjacentInheritsLock implements spec.md §8 property 8: placing a
// chest next to an already-locked chest inherits that owner's lock rather
// than creating a second independently-lockable chest.
func TestChestAdjacentInheritsLock(t *testing.T) {
	deps := testCollaborators()
	chests := deps.Chests.(*collab.MemoryChestRegistry)
	existing := collab.Coordinate{X: 0, Y: 64, Z: 0}
	chests.GiveLock(existing, "Alice", "Alice's Chest")

	sess := session.New("127.0.0.1")
	neighbor := collab.Coordinate{X: 1, Y: 64, Z: 0}
	if err := lockChest(neighbor, "Bob", sess, chests); err != nil {
		t.Fatalf("lockChest: %v", err)
	}

	entry, ok := chests.Lookup(neighbor)
	if !ok || !entry.Locked || entry.Owner != "Alice" {
		t.Fatalf("expected neighbor to inherit Alice's lock, got %+v", entry)
	}
}

// TestChestAdjacentToOpenChestDoesNotInheritLock guards the bug the
// maintainer flagged: a neighbor of an open (registered, unlocked) chest
// must NOT come back locked with an empty owner, since nobody's name would
// ever equal "" in CanOpen and the placer would be locked out of their own
// chest.
func TestChestAdjacentToOpenChestDoesNotInheritLock(t *testing.T) {
	deps := testCollaborators()
	chests := deps.Chests.(*collab.MemoryChestRegistry)
	existing := collab.Coordinate{X: 0, Y: 64, Z: 0}
	chests.AddOpen(existing)

	sess := session.New("127.0.0.1")
	neighbor := collab.Coordinate{X: 1, Y: 64, Z: 0}
	if err := lockChest(neighbor, "Bob", sess, chests); err != nil {
		t.Fatalf("lockChest: %v", err)
	}

	entry, ok := chests.Lookup(neighbor)
	if !ok || entry.Locked {
		t.Fatalf("expected neighbor to register open, not inherit a lock, got %+v", entry)
	}
}

func TestDisconnectRewritesServerListPing(t *testing.T) {
	sess := session.New("127.0.0.1")
	cfg := &config.Config{ProtocolVersion: 39, GameVersion: "1.5.2", Description: "test server", MaxPlayers: 20}
	deps := testCollaborators()
	pop := deps.Population.(*collab.MemoryPopulationCounter)
	pop.Inc()

	hook := disconnectHook(sess, cfg, deps)
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteUTF16(wire.NewUTF16String(serverListPingSentinel))
	w.Flush()

	got := runHook(t, hook, byte(grammar.OpDisconnect), buf.Bytes())

	r := wire.NewReader(bytes.NewReader(got[1:]))
	reason, err := r.ReadUTF16()
	if err != nil {
		t.Fatalf("ReadUTF16: %v", err)
	}
	want := "§1\x0039\x001.5.2\x00test server\x001\x0020"
	if reason.String() != want {
		t.Fatalf("got %q, want %q", reason.String(), want)
	}
	if sess.Running() {
		t.Fatal("expected disconnectHook to stop the session")
	}
	if sess.Kicked() {
		t.Fatal("disconnectHook writes its own 0xFF; it must not also arm tunnel.flushKick's redundant one")
	}
}
